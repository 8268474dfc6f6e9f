package registration

import (
	"bytes"
	"context"
	"io/fs"
	"net/http"
	"net/mail"
	"sync"

	"github.com/gofiber/template/django/v3"
	goerrors "github.com/goliatone/go-errors"
)

// MailVariantVerifyUserEmail is the only variant this package ships;
// the set is closed so delivery failures are structural, not content
// bugs.
const MailVariantVerifyUserEmail = "verify_user_email"

// Mailbox identifies a recipient by display name and validated address.
type Mailbox struct {
	Name    string
	Address string
}

// String renders the mailbox in RFC 5322 form.
func (m Mailbox) String() string {
	addr := mail.Address{Name: m.Name, Address: m.Address}
	return addr.String()
}

// Mail is a named template variant plus its bindings.
type Mail interface {
	Variant() string
	TemplateData() map[string]any
}

// VerifyUserEmail asks the recipient to confirm their address by
// following the embedded link.
type VerifyUserEmail struct {
	URL string
}

// Variant implements Mail.
func (VerifyUserEmail) Variant() string { return MailVariantVerifyUserEmail }

// TemplateData implements Mail.
func (m VerifyUserEmail) TemplateData() map[string]any {
	return map[string]any{"url": m.URL}
}

// Message is the rendered mail handed to the transport.
type Message struct {
	Recipient Mailbox
	Subject   string
	Body      string
}

// Sender is the transport boundary. Implementations (SMTP, API relays)
// live outside this package; so does any retry policy.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Mailer dispatches a mail variant to a recipient. Success means the
// transport accepted the message for delivery.
type Mailer interface {
	Send(ctx context.Context, mail Mail, recipient Mailbox) error
}

var mailSubjects = map[string]string{
	MailVariantVerifyUserEmail: "Please verify your email address",
}

// TemplateMailer renders the variant's embedded template and hands the
// result to the configured Sender. It never retries.
type TemplateMailer struct {
	engine *django.Engine
	sender Sender
	logger Logger
}

var _ Mailer = (*TemplateMailer)(nil)

// NewTemplateMailer loads the embedded mail templates into the view
// engine and wires the transport.
func NewTemplateMailer(sender Sender, logger Logger) (*TemplateMailer, error) {
	if sender == nil {
		return nil, goerrors.New("mail sender is required", goerrors.CategoryBadInput)
	}
	if logger == nil {
		logger = defLogger{}
	}

	sub, err := fs.Sub(templatesFS, "data/templates/mail")
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to locate mail templates")
	}

	engine := django.NewFileSystem(http.FS(sub), ".html")
	if err := engine.Load(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load mail templates")
	}

	return &TemplateMailer{
		engine: engine,
		sender: sender,
		logger: logger,
	}, nil
}

// Send renders and dispatches one message. A transport failure is
// surfaced to the caller, which decides whether it aborts a larger
// operation.
func (m *TemplateMailer) Send(ctx context.Context, mailVariant Mail, recipient Mailbox) error {
	subject, ok := mailSubjects[mailVariant.Variant()]
	if !ok {
		return goerrors.New("unknown mail variant", goerrors.CategoryBadInput).
			WithMetadata(map[string]any{"variant": mailVariant.Variant()})
	}

	data := map[string]any{"name": recipient.Name}
	for k, v := range mailVariant.TemplateData() {
		data[k] = v
	}

	var buf bytes.Buffer
	if err := m.engine.Render(&buf, mailVariant.Variant(), data); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to render mail template").
			WithMetadata(map[string]any{"variant": mailVariant.Variant()})
	}

	msg := Message{
		Recipient: recipient,
		Subject:   subject,
		Body:      buf.String(),
	}

	if err := m.sender.Send(ctx, msg); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "mail transport did not accept message")
	}

	m.logger.Debug("mail accepted for delivery", "variant", mailVariant.Variant(), "recipient", recipient.Address)

	return nil
}

// CaptureSender records rendered messages. Used in tests and local
// development; set Err to simulate transport refusal.
type CaptureSender struct {
	mu       sync.Mutex
	messages []Message

	Err error
}

// Send implements Sender.
func (s *CaptureSender) Send(_ context.Context, msg Message) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

// Sent returns a copy of the recorded messages.
func (s *CaptureSender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// LoggerSender writes outgoing mail to the logger instead of a real
// transport. Handy while developing against a local stack.
type LoggerSender struct {
	Logger Logger
}

// Send implements Sender.
func (s LoggerSender) Send(_ context.Context, msg Message) error {
	logger := s.Logger
	if logger == nil {
		logger = defLogger{}
	}
	logger.Info("sending email notification", "to", msg.Recipient.String(), "subject", msg.Subject)
	logger.Debug("email body", "body", msg.Body)
	return nil
}
