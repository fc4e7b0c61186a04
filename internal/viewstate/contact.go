package viewstate

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultSubmitDelay is how long the simulated submission takes.
const DefaultSubmitDelay = 2 * time.Second

// Interest is what a visitor wants to talk about.
type Interest string

const (
	InterestWebDevelopment     Interest = "Web Development"
	InterestBackendDevelopment Interest = "Backend Development"
	InterestPHPProjects        Interest = "PHP Projects"
	InterestSystemArchitecture Interest = "System Architecture"
	InterestCollaboration      Interest = "Collaboration"
	InterestOther              Interest = "Other"
)

// Interests lists the selectable interests; the first one is the default.
var Interests = []Interest{
	InterestWebDevelopment,
	InterestBackendDevelopment,
	InterestPHPProjects,
	InterestSystemArchitecture,
	InterestCollaboration,
	InterestOther,
}

var interestEmoji = map[Interest]string{
	InterestWebDevelopment:     "🌐",
	InterestBackendDevelopment: "⚙️",
	InterestPHPProjects:        "🐘",
	InterestSystemArchitecture: "🏗️",
	InterestCollaboration:      "🤝",
	InterestOther:              "💬",
}

// Emoji is the glyph rendered next to the interest button.
func (i Interest) Emoji() string { return interestEmoji[i] }

// ParseInterest accepts only the enumerated interests.
func ParseInterest(s string) (Interest, error) {
	for _, i := range Interests {
		if string(i) == s {
			return i, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownInterest)
}

// Field names an editable text field of the contact form.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldMessage Field = "message"
)

// ParseField maps a form input name onto a Field.
func ParseField(s string) (Field, error) {
	switch Field(s) {
	case FieldName, FieldEmail, FieldMessage:
		return Field(s), nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownField)
}

// Phase is where the form is in its submission cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseSubmitting
	// PhaseResolved holds the last outcome on screen until the visitor
	// edits the form or submits again.
	PhaseResolved
)

func (p Phase) String() string {
	switch p {
	case PhaseValidating:
		return "validating"
	case PhaseSubmitting:
		return "submitting"
	case PhaseResolved:
		return "resolved"
	default:
		return "idle"
	}
}

// Message is the content handed to a Sender.
type Message struct {
	Name     string `validate:"notblank"`
	Email    string `validate:"notblank,contact_email"`
	Message  string `validate:"notblank"`
	Interest Interest
}

// Sender delivers a validated message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, msg Message) error

func (f SenderFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }

// SimulatedSender stands in for a network call: it waits Delay and then
// returns Err. Nothing leaves the process.
type SimulatedSender struct {
	Clock Clock
	Delay time.Duration
	Err   error
}

func (s SimulatedSender) Send(_ context.Context, _ Message) error {
	clock := s.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	<-clock.After(s.Delay)
	return s.Err
}

// Result is the resolution of a submission attempt.
type Result int

const (
	Success Result = iota
	Failure
)

// Outcome is what one Submit call resolved to.
type Outcome struct {
	Result Result
	Status string
	Err    error
}

// ContactSnapshot is a copy of the form state for rendering.
type ContactSnapshot struct {
	Name         string
	Email        string
	Message      string
	Interest     Interest
	IsSubmitting bool
	Status       string
	Phase        Phase
}

// Succeeded reports whether Status is the success message.
func (s ContactSnapshot) Succeeded() bool { return s.Status == StatusSent }

// CanSubmit is false while a submission is pending; the submit button renders disabled.
func (s ContactSnapshot) CanSubmit() bool { return !s.IsSubmitting }

// ContactForm is the contact page's form state machine:
// Idle -> Validating -> Submitting -> Success|Failure -> Idle.
type ContactForm struct {
	mu         sync.Mutex
	msg        Message
	phase      Phase
	submitting bool
	status     string
	sender     Sender
}

// NewContactForm returns an empty form that submits through sender.
func NewContactForm(sender Sender) *ContactForm {
	if sender == nil {
		sender = SimulatedSender{Delay: DefaultSubmitDelay}
	}
	return &ContactForm{msg: defaultMessage(), sender: sender}
}

func defaultMessage() Message {
	return Message{Interest: Interests[0]}
}

// UpdateField stores value verbatim. Editing is allowed while submitting.
func (f *ContactForm) UpdateField(field Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case FieldName:
		f.msg.Name = value
	case FieldEmail:
		f.msg.Email = value
	case FieldMessage:
		f.msg.Message = value
	default:
		return fmt.Errorf("%q: %w", field, ErrUnknownField)
	}
	f.settle()
	return nil
}

// SelectInterest sets the interest; values outside Interests are rejected.
func (f *ContactForm) SelectInterest(value Interest) error {
	if _, err := ParseInterest(string(value)); err != nil {
		return err
	}
	f.mu.Lock()
	f.msg.Interest = value
	f.settle()
	f.mu.Unlock()
	return nil
}

// settle moves a resolved form back to Idle once it is edited.
// Callers hold f.mu.
func (f *ContactForm) settle() {
	if f.phase == PhaseResolved {
		f.phase = PhaseIdle
	}
}

// Submit validates the form and, if it passes, hands it to the Sender.
// It blocks for the Sender's duration and cannot be aborted by ctx.
// A call made while another is pending returns ErrSubmitInProgress.
func (f *ContactForm) Submit(ctx context.Context) (Outcome, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return Outcome{}, ErrSubmitInProgress
	}

	f.phase = PhaseValidating
	if verr := validateMessage(f.msg); verr != nil {
		f.status = verr.Message
		f.phase = PhaseResolved
		f.mu.Unlock()
		return Outcome{Result: Failure, Status: verr.Message, Err: verr}, nil
	}

	f.phase = PhaseSubmitting
	f.submitting = true
	msg := f.msg
	sender := f.sender
	f.mu.Unlock()

	err := sender.Send(context.WithoutCancel(ctx), msg)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	f.phase = PhaseResolved
	if err != nil {
		f.status = StatusSendFailed
		return Outcome{Result: Failure, Status: StatusSendFailed, Err: &TransportError{Err: err}}, nil
	}
	f.msg = defaultMessage()
	f.status = StatusSent
	return Outcome{Result: Success, Status: StatusSent}, nil
}

// Snapshot copies the current state.
func (f *ContactForm) Snapshot() ContactSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return ContactSnapshot{
		Name:         f.msg.Name,
		Email:        f.msg.Email,
		Message:      f.msg.Message,
		Interest:     f.msg.Interest,
		IsSubmitting: f.submitting,
		Status:       f.status,
		Phase:        f.phase,
	}
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("contact_email", func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		})
		validateInst = v
	})
	return validateInst
}

// ValidEmail reports whether s looks like name@host.tld.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// validateMessage reports missing fields before a malformed email.
func validateMessage(msg Message) *ValidationError {
	err := validatorInstance().Struct(msg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Kind: MissingField, Message: StatusMissingFields}
	}

	var invalidEmail *ValidationError
	for _, fe := range fieldErrs {
		field := strings.ToLower(fe.Field())
		if fe.Tag() == "notblank" {
			return &ValidationError{Kind: MissingField, Field: field, Message: StatusMissingFields}
		}
		if fe.Tag() == "contact_email" && invalidEmail == nil {
			invalidEmail = &ValidationError{Kind: InvalidEmail, Field: field, Message: StatusInvalidEmail}
		}
	}
	if invalidEmail != nil {
		return invalidEmail
	}
	return &ValidationError{Kind: MissingField, Message: StatusMissingFields}
}
