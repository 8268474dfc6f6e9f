package registration

import (
	"context"
	"net/http"
	"net/mail"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	gocmd "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Registration is the result of a successful provisioning run: the
// identifiers of the freshly created user and personal organization.
type Registration struct {
	UserID         uuid.UUID `json:"user_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
}

// RegisterUserMessage carries one registration attempt. Validate must
// pass before the handler touches the store.
type RegisterUserMessage struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	UseHashid bool   `json:"-"`

	// OnResponse receives the result when the message travels through
	// the command bus, which only carries errors back.
	OnResponse func(*Registration) `json:"-"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Validate checks shape only. Password length policy lives in the
// handler because the minimum is operator configuration, not message
// structure.
func (e RegisterUserMessage) Validate() error {
	err := validation.ValidateStruct(&e,
		validation.Field(&e.FirstName, validation.Required, validation.Length(1, 50)),
		validation.Field(&e.LastName, validation.Required, validation.Length(1, 50)),
		validation.Field(&e.Email, validation.Required, validation.Length(1, 100), is.Email),
		validation.Field(&e.Password, validation.Required),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload").
			WithCode(http.StatusBadRequest).
			WithTextCode(TextCodeValidationFailed)
	}
	return nil
}

// RegisterUserHandler provisions a user account: one transaction
// creates the user, their personal organization and an editor
// membership, then issues a verification token and dispatches the
// verification email. The transaction commits only after the mail
// transport accepts the message, so a stored account implies a sent
// email.
type RegisterUserHandler struct {
	repo   RepositoryManager
	tokens TokenService
	mailer Mailer
	sink   ActivitySink
	cfg    Config
	logger Logger
}

// RegisterUserOption configures optional collaborators on the handler.
type RegisterUserOption func(*RegisterUserHandler)

// WithActivitySink records registration outcomes for audit trails.
func WithActivitySink(sink ActivitySink) RegisterUserOption {
	return func(h *RegisterUserHandler) {
		h.sink = sink
	}
}

// WithLogger replaces the default stdout logger.
func WithLogger(logger Logger) RegisterUserOption {
	return func(h *RegisterUserHandler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

func NewRegisterUserHandler(repo RepositoryManager, tokens TokenService, mailer Mailer, cfg Config, opts ...RegisterUserOption) *RegisterUserHandler {
	h := &RegisterUserHandler{
		repo:   repo,
		tokens: tokens,
		mailer: mailer,
		cfg:    cfg,
		logger: defLogger{},
	}

	for _, opt := range opts {
		opt(h)
	}

	h.sink = normalizeActivitySink(h.sink)

	return h
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) (*Registration, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*Registration, error) {
	if !h.cfg.GetRegistrationEnabled() {
		return nil, ErrRegistrationDisabled
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}

	recipient, err := mail.ParseAddress(event.Email)
	if err != nil {
		// is.Email passed, so a parse failure here is a programming
		// error rather than bad input.
		return nil, internalError(err, "failed to parse recipient address")
	}

	if minimum := h.cfg.GetPasswordMinLength(); len(event.Password) < minimum {
		return nil, PasswordTooShortError(minimum)
	}

	user := &User{}
	organization := &Organization{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return internalError(err, "failed to hash password")
		}

		user.PasswordHash = hash
		user.Email = event.Email
		user.FirstName = event.FirstName
		user.LastName = event.LastName
		if event.UseHashid {
			if id, err := hashid.NewUUID(event.Email); err == nil {
				user.ID = id
			}
		}

		outcome, err := h.repo.Users().CreateIfAbsentTx(ctx, tx, user)
		if err != nil {
			return internalError(err, "could not create user")
		}

		if outcome == InsertSkipped {
			return ErrUserAlreadyExists
		}

		organization.Name = PersonalOrganizationName(event.FirstName, event.LastName)
		organization.CreatedBy = user.ID
		if organization, err = h.repo.Organizations().CreateTx(ctx, tx, organization); err != nil {
			return internalError(err, "could not create personal organization")
		}

		membership := &Membership{
			UserID:         user.ID,
			OrganizationID: organization.ID,
			Role:           InitialMembershipRole,
		}
		if _, err = h.repo.Memberships().CreateTx(ctx, tx, membership); err != nil {
			return internalError(err, "could not create membership")
		}

		token, err := h.tokens.IssueEmailVerification(user.ID.String())
		if err != nil {
			return internalError(err, "could not issue verification token")
		}

		verifyMail := VerifyUserEmail{URL: VerificationURL(h.cfg.GetAppURL(), token)}
		mailbox := Mailbox{Name: user.FullName(), Address: recipient.Address}
		if err := h.mailer.Send(ctx, verifyMail, mailbox); err != nil {
			h.logger.Warn("verification email rejected, rolling back registration", "email", event.Email, "error", err)
			return internalError(err, "could not send verification email")
		}

		return nil
	})

	if err != nil {
		// The attempted ids were rolled back, so the event carries the
		// email only.
		h.recordActivity(ctx, ActivityEventRegistrationDuplicate, nil, nil, event.Email, err)

		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}

		return nil, internalError(err, "user registration transaction failed")
	}

	h.logger.Info("user registered", "user_id", user.ID, "organization_id", organization.ID)

	h.recordActivity(ctx, ActivityEventRegistrationCompleted, user, organization, event.Email, nil)

	return &Registration{
		UserID:         user.ID,
		OrganizationID: organization.ID,
	}, nil
}

// RegisterUserCommand adapts the handler to the command bus contract.
// Results travel back through the message's OnResponse callback.
type RegisterUserCommand struct {
	handler *RegisterUserHandler
}

var _ gocmd.Commander[RegisterUserMessage] = (*RegisterUserCommand)(nil)

func NewRegisterUserCommand(handler *RegisterUserHandler) *RegisterUserCommand {
	return &RegisterUserCommand{handler: handler}
}

func (c *RegisterUserCommand) Execute(ctx context.Context, msg RegisterUserMessage) error {
	if c == nil || c.handler == nil {
		return goerrors.New("register user handler is required", goerrors.CategoryBadInput)
	}

	result, err := c.handler.Execute(ctx, msg)
	if err != nil {
		return err
	}

	if msg.OnResponse != nil {
		msg.OnResponse(result)
	}

	return nil
}

// recordActivity is best effort; an audit failure never changes the
// outcome of the registration itself.
func (h *RegisterUserHandler) recordActivity(ctx context.Context, eventType ActivityEventType, user *User, organization *Organization, email string, cause error) {
	if eventType == ActivityEventRegistrationDuplicate && !IsUserAlreadyExists(cause) {
		return
	}

	evt := ActivityEvent{
		EventType:  eventType,
		Email:      email,
		OccurredAt: time.Now(),
	}
	if user != nil && user.ID != uuid.Nil {
		evt.UserID = user.ID.String()
	}
	if organization != nil && organization.ID != uuid.Nil {
		evt.OrganizationID = organization.ID.String()
	}

	if err := h.sink.Record(ctx, evt); err != nil {
		h.logger.Warn("activity sink record error: %v", err)
	}
}
