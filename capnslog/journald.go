package capnslog

import (
	"strings"

	"github.com/coreos/go-systemd/v22/journal"
)

// JournaldFormatter mirrors log entries to the systemd journal via
// sd_journal_send. It is a no-op (journal.Send is simply never called)
// when journal.Enabled reports that the journald socket is unavailable, so
// it's safe to install unconditionally, which is what cmd/gunzip does.
type JournaldFormatter struct{}

// NewJournaldFormatter returns a Formatter that writes entries to the
// journal only. SetFormatter replaces any formatter already installed, so
// callers that want both destinations should install a MultiFormatter
// over this one and a StringFormatter.
func NewJournaldFormatter() *JournaldFormatter {
	return &JournaldFormatter{}
}

func (j *JournaldFormatter) Format(pkg string, level LogLevel, _ int, entries ...LogEntry) {
	if !journal.Enabled() {
		return
	}
	var b strings.Builder
	b.WriteString(pkg)
	for _, e := range entries {
		b.WriteByte(' ')
		str := e.LogString()
		b.WriteString(strings.TrimSuffix(str, "\n"))
	}
	_ = journal.Send(b.String(), levelToPriority(level), map[string]string{
		"SYSLOG_IDENTIFIER": pkg,
	})
}

// MultiFormatter fans a single Format call out to every formatter it
// wraps, letting a caller install a StringFormatter for stderr and a
// JournaldFormatter for the journal at the same time.
type MultiFormatter []Formatter

func (m MultiFormatter) Format(pkg string, level LogLevel, depth int, entries ...LogEntry) {
	for _, f := range m {
		f.Format(pkg, level, depth+1, entries...)
	}
}

func levelToPriority(l LogLevel) journal.Priority {
	switch l {
	case CRITICAL:
		return journal.PriEmerg
	case ERROR:
		return journal.PriErr
	case WARNING:
		return journal.PriWarning
	case NOTICE:
		return journal.PriNotice
	case INFO:
		return journal.PriInfo
	case DEBUG, TRACE:
		return journal.PriDebug
	default:
		return journal.PriInfo
	}
}
