package fastset

import "context"

// Logger is the logging contract used by Client.
type Logger interface {
	Printf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

// Hook observes every request the client makes. PostRequest is called exactly once per
// attempt, including attempts that fail before the request is sent.
type Hook interface {
	PreRequest(ctx context.Context, method, url string, body []byte)
	PostRequest(ctx context.Context, method, url string, statusCode int, responseBody []byte, err error)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
