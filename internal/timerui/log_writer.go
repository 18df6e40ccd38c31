package timerui

// LogChannelWriter is an io.Writer that forwards each write (one log line
// when used under a log.Logger) to a channel read by the UIModel. Writes
// never block: when the channel is full the line only reaches the other
// log outputs.
type LogChannelWriter struct {
	ch chan<- string
}

func NewLogChannelWriter(ch chan<- string) *LogChannelWriter {
	if ch == nil {
		panic("LogChannelWriter: channel cannot be nil")
	}
	return &LogChannelWriter{ch: ch}
}

func (w *LogChannelWriter) Write(p []byte) (int, error) {
	select {
	case w.ch <- string(p):
	default:
	}
	return len(p), nil
}
