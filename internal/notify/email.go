package notify

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EmailListener turns a notification into a simulated e-mail written to w.
type EmailListener struct {
	Name    string
	Address string
	Subject string

	w   io.Writer
	now func() time.Time
}

var _ Listener = (*EmailListener)(nil)

// NewEmailListener creates a listener that writes messages addressed to
// name <address> into w.
func NewEmailListener(name, address string, w io.Writer) *EmailListener {
	return &EmailListener{
		Name:    name,
		Address: address,
		Subject: "ALERT: Unusual Activity",
		w:       w,
		now:     time.Now,
	}
}

// Receive implements Listener.
func (e *EmailListener) Receive(message string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Message-ID: <%s@pixell-river.com>\n", uuid.NewString())
	fmt.Fprintf(&b, "Date: %s\n", e.now().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "To: %s <%s>\n", e.Name, e.Address)
	fmt.Fprintf(&b, "Subject: %s\n\n", e.Subject)
	fmt.Fprintf(&b, "%s\n\n", message)
	if _, err := io.WriteString(e.w, b.String()); err != nil {
		return fmt.Errorf("EmailListener: write to %s: %w", e.Address, err)
	}
	return nil
}
