package models

// DataSourceError reports a failure talking to or querying the backing store.
// Its message is the underlying store error, which the API returns verbatim.
type DataSourceError struct {
	Op  string
	Err error
}

// NewDataSourceError wraps err as a DataSourceError for operation op
func NewDataSourceError(op string, err error) *DataSourceError {
	return &DataSourceError{Op: op, Err: err}
}

func (e *DataSourceError) Error() string {
	if e.Err == nil {
		return e.Op + ": unknown data source error"
	}
	return e.Err.Error()
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}
