package core

// Logger logs messages with optional extras.
// Extras may be errors, map[string]interface{} custom data or a Requester.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Requester identifies the origin of a request for error reports.
type Requester struct {
	RequestID string
	RemoteIP  string
}
