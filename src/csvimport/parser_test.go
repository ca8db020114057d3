package csvimport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ValidRows(t *testing.T) {
	content := "Date,Amount,Description\n2024-01-15,100.50,GROCERY STORE\n2024-01-16,-50.25,GAS STATION\n"

	result, err := Parse(content)
	require.NoError(t, err)

	require.Len(t, result.Transactions, 2)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "100.5", result.Transactions[0].Amount.String())
	assert.Equal(t, "50.25", result.Transactions[1].Amount.String())
	assert.Equal(t, "GROCERY STORE", result.Transactions[0].Description)
	assert.Equal(t, 2, result.Transactions[0].RowNumber)
	assert.Equal(t, 3, result.Transactions[1].RowNumber)
}

func TestParse_SignStripped(t *testing.T) {
	result, err := Parse("Date,Amount,Description\n2024-01-16,-50.25,GAS STATION\n")
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.True(t, result.Transactions[0].Amount.IsPositive())
}

func TestParse_MissingColumn(t *testing.T) {
	_, err := Parse("Date,Description\n2024-01-15,GROCERY STORE\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
	assert.Contains(t, err.Error(), "Amount")
}

func TestParse_MissingColumnsNamesAll(t *testing.T) {
	_, err := Parse("Description\nGROCERY STORE\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Date")
	assert.Contains(t, err.Error(), "Amount")
}

func TestParse_HeaderTrimmedAndColumnOrderIgnored(t *testing.T) {
	result, err := Parse(" Description , Amount , Date ,Balance\nCOFFEE SHOP,4.50,2024-03-01,999\n")
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "2024-03-01", result.Transactions[0].Date)
	assert.Equal(t, "COFFEE SHOP", result.Transactions[0].Description)
}

func TestParse_RowErrors(t *testing.T) {
	content := strings.Join([]string{
		"Date,Amount,Description",
		"15/01/2024,10.00,BAD DATE FORMAT",
		"2024-02-30,10.00,CALENDAR OVERFLOW",
		"2024-01-15,,MISSING AMOUNT",
		"2024-01-15,abc,BAD AMOUNT",
		"2024-01-15,0,ZERO AMOUNT",
		"2024-01-15,100000001,TOO LARGE",
		"2024-01-15,10.00,",
		"2024-01-15,10.00," + strings.Repeat("x", 101),
	}, "\n") + "\n"

	result, err := Parse(content)
	require.NoError(t, err)

	assert.Empty(t, result.Transactions)
	require.Len(t, result.Errors, 8)
	assert.Contains(t, result.Errors[0].Message, "expected YYYY-MM-DD")
	assert.Contains(t, result.Errors[1].Message, "not a real calendar date")
	assert.Equal(t, "missing amount", result.Errors[2].Message)
	assert.Contains(t, result.Errors[3].Message, "invalid amount")
	assert.Equal(t, "amount must be nonzero", result.Errors[4].Message)
	assert.Contains(t, result.Errors[5].Message, "100,000,000")
	assert.Equal(t, "missing description", result.Errors[6].Message)
	assert.Contains(t, result.Errors[7].Message, "100 characters")

	// Row numbers are 1-indexed counting the header as row 1.
	assert.Equal(t, 2, result.Errors[0].RowNumber)
	assert.Equal(t, 9, result.Errors[7].RowNumber)
}

func TestParse_MalformedQuotedFieldFailsOnlyItsRow(t *testing.T) {
	content := "Date,Amount,Description\n" +
		"2024-01-15,10.00,GOOD ROW\n" +
		"2024-01-16,5.00,\"BAD\" QUOTE\n" +
		"2024-01-17,3.00,ANOTHER GOOD ROW\n"

	result, err := Parse(content)
	require.NoError(t, err)

	require.Len(t, result.Transactions, 2)
	assert.Equal(t, "GOOD ROW", result.Transactions[0].Description)
	assert.Equal(t, "ANOTHER GOOD ROW", result.Transactions[1].Description)
	assert.Equal(t, 4, result.Transactions[1].RowNumber)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].RowNumber)
	assert.Contains(t, result.Errors[0].Message, "malformed csv row")

	assert.Equal(t, 3, result.Summary.Total)
	assert.Equal(t, 2, result.Summary.Success)
	assert.Equal(t, 1, result.Summary.Failed)
}

func TestParse_FirstFailureWins(t *testing.T) {
	// Bad date and bad amount on the same row: only the date error is reported.
	result, err := Parse("Date,Amount,Description\nnot-a-date,abc,\n")
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "date")
}

func TestParse_SummaryReconciles(t *testing.T) {
	content := "Date,Amount,Description\n2024-01-15,100.50,OK ROW\nbad,100.50,BAD ROW\n2024-01-17,3.00,OK ROW\n"
	result, err := Parse(content)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Summary.Total)
	assert.Equal(t, 2, result.Summary.Success)
	assert.Equal(t, 1, result.Summary.Failed)
	assert.Equal(t, result.Summary.Total, result.Summary.Success+result.Summary.Failed)
}

func TestParse_EmptyLinesSkipped(t *testing.T) {
	content := "Date,Amount,Description\n\n2024-01-15,100.50,GROCERY STORE\n\n"
	result, err := Parse(content)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, 1, result.Summary.Total)
}

func TestParse_Pure(t *testing.T) {
	content := "Date,Amount,Description\n2024-01-15,100.50,GROCERY STORE\nbad,1,BAD\n"
	first, err := Parse(content)
	require.NoError(t, err)
	second, err := Parse(content)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParse_DescriptionTrimmed(t *testing.T) {
	result, err := Parse("Date,Amount,Description\n2024-01-15,10.00,  PADDED DESC  \n")
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "PADDED DESC", result.Transactions[0].Description)
}

func TestValidateUpload(t *testing.T) {
	assert.NoError(t, ValidateUpload("statement.csv", 1024))
	assert.NoError(t, ValidateUpload("STATEMENT.CSV", 1024))

	err := ValidateUpload("statement.txt", 1024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".csv")

	err = ValidateUpload("statement.csv", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")

	err = ValidateUpload("statement.csv", MaxFileSize+1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "5 MiB")
}
