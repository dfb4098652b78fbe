package payimport

import "errors"

var (
	ErrEmptyWorkbook  = errors.New("workbook has no data rows")
	ErrMissingColumns = errors.New("missing required columns")
	ErrUnreadableFile = errors.New("file is not a readable xlsx workbook")
)
