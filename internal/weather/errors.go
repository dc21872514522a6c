package weather

// ForecastProcessingError is returned when the forecast for a set of beaches
// could not be produced.
type ForecastProcessingError struct {
	Err error
}

func (e *ForecastProcessingError) Error() string {
	return "Unexpected error during the forecast processing: " + e.Err.Error()
}

func (e *ForecastProcessingError) Unwrap() error {
	return e.Err
}
