package logging

var std = Wrap(New(DefaultConfig()))

// SetDefault replaces the package-level logger used by components (the
// deserializer and patch applier) that warn about dropped data without
// holding a reference to the owning Document.
func SetDefault(l *Logger) {
	if l != nil {
		std = l
	}
}

func Warnf(format string, args ...any) { std.Warnf(format, args...) }
func Infof(format string, args ...any) { std.Infof(format, args...) }
