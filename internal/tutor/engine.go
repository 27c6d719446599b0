// Package tutor turns a user utterance into a reply plan: it picks the correction
// policy, composes the persona prompt, calls the generator and decomposes the answer.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/foxseedlab/sprachpartner/internal/generator"
	"github.com/foxseedlab/sprachpartner/internal/locale"
	"github.com/foxseedlab/sprachpartner/internal/mode"
	"github.com/foxseedlab/sprachpartner/internal/persona"
	"github.com/foxseedlab/sprachpartner/internal/repository"
)

var (
	// ErrGeneration wraps failures of the main reply call. No state is changed for the turn.
	ErrGeneration = errors.New("reply generation failed")
	// ErrPermission is returned when a non-admin asks for the stats report.
	ErrPermission = errors.New("admin only")
)

const replyTemperature = 0.7

type AuxKind string

const AuxNudge AuxKind = "nudge"

// Aux is an advisory side message delivered after the reply.
type Aux struct {
	Kind       AuxKind
	Text       string
	ButtonText string
	ButtonURL  string
}

// ReplyPlan is the outcome of one turn.
type ReplyPlan struct {
	Reply       string
	Explanation string
	Aux         []Aux
	Locale      locale.Locale
	// Voice is the persona voice for speech synthesis of Reply.
	Voice string
}

type Turn struct {
	ID     string
	UserID string
	Text   string
	Kind   repository.MessageKind
}

// ReportFormatter renders the admin statistics report.
type ReportFormatter interface {
	Format(ctx context.Context, days int) (string, error)
}

type Options struct {
	DefaultMode      mode.Mode
	DefaultLocale    locale.Locale
	FollowUpChance   float64
	FollowUpMaxChars int
	NudgeInterval    int
	DonateURL        string
	AdminUserID      string
	StatsDays        int
}

type Engine struct {
	repo       repository.Repository
	gen        generator.Generator
	personas   *persona.Registry
	classifier *Classifier
	followUp   *FollowUp
	reporter   ReportFormatter
	opts       Options
	now        func() time.Time
}

func NewEngine(
	repo repository.Repository,
	gen generator.Generator,
	personas *persona.Registry,
	rnd Probability,
	reporter ReportFormatter,
	opts Options,
) *Engine {
	return &Engine{
		repo:       repo,
		gen:        gen,
		personas:   personas,
		classifier: NewClassifier(gen),
		followUp:   NewFollowUp(gen, rnd, opts.FollowUpChance, opts.FollowUpMaxChars),
		reporter:   reporter,
		opts:       opts,
		now:        time.Now,
	}
}

// Session returns the user's session, creating it with a freshly picked persona on first contact.
func (e *Engine) Session(ctx context.Context, userID string) (*repository.Session, error) {
	s, err := e.repo.EnsureSession(ctx, repository.EnsureSessionInput{
		UserID:    userID,
		Mode:      e.opts.DefaultMode,
		Locale:    e.opts.DefaultLocale,
		PersonaID: e.personas.Pick().ID,
		Now:       e.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("ensure session: %w", err)
	}
	return s, nil
}

// Start registers the visit. firstVisit is true until the user has picked a locale.
func (e *Engine) Start(ctx context.Context, userID string) (s *repository.Session, firstVisit bool, err error) {
	s, err = e.Session(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return s, !s.LocaleSet, nil
}

func (e *Engine) SetMode(ctx context.Context, userID string, m mode.Mode) (*repository.Session, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("unknown mode %q", m)
	}
	s, err := e.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := e.repo.UpdateMode(ctx, userID, m); err != nil {
		return nil, fmt.Errorf("update mode: %w", err)
	}
	s.Mode = m
	return s, nil
}

// SetLocale switches the UI locale. An unknown code leaves the session untouched and reports false.
func (e *Engine) SetLocale(ctx context.Context, userID, code string) (*repository.Session, bool, error) {
	s, err := e.Session(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	l, ok := locale.Parse(code)
	if !ok {
		return s, false, nil
	}
	if err := e.repo.UpdateLocale(ctx, userID, l); err != nil {
		return nil, false, fmt.Errorf("update locale: %w", err)
	}
	s.Locale = l
	s.LocaleSet = true
	return s, true, nil
}

// Status renders the localized current-mode line.
func (e *Engine) Status(ctx context.Context, userID string) (string, error) {
	s, err := e.Session(ctx, userID)
	if err != nil {
		return "", err
	}
	return locale.Format(s.Locale, locale.KeyStatus, map[string]string{
		"mode": locale.ModeLabel(s.Locale, s.Mode),
	}), nil
}

// Converse runs one tutoring turn. Usage counters change only when a reply was generated.
func (e *Engine) Converse(ctx context.Context, turn Turn) (*ReplyPlan, error) {
	s, err := e.Session(ctx, turn.UserID)
	if err != nil {
		return nil, err
	}
	p := e.personas.Get(s.PersonaID)
	marker := locale.CorrectionsMarker(s.Locale)
	noErrors := locale.NoErrorsMarker(s.Locale)
	log := slog.With("turn_id", turn.ID, "user_id", turn.UserID, "mode", s.Mode, "locale", s.Locale)

	translation := e.classifier.IsTranslationRequest(ctx, turn.Text)
	system := ComposeSystemPrompt(PromptInput{
		Mode:        s.Mode,
		Persona:     p,
		Locale:      s.Locale,
		Translation: translation,
		Utterance:   turn.Text,
	})
	raw, err := e.gen.Generate(ctx, generator.Request{
		Tier:        generator.TierPrimary,
		System:      system,
		User:        turn.Text,
		Temperature: replyTemperature,
	})
	if err == nil && strings.TrimSpace(raw) == "" {
		err = generator.ErrEmptyResponse
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reply, explanation := Decompose(raw, marker)
	explanation = completeExplanation(explanation, marker, noErrors)
	if s.Mode == mode.Auto && !translation && isNoErrorsBlock(explanation, marker, noErrors) {
		explanation = ""
	}
	if q := e.followUp.Maybe(ctx, turn.Text); q != "" {
		reply = reply + "\n\n" + q
	}

	plan := &ReplyPlan{
		Reply:       reply,
		Explanation: explanation,
		Locale:      s.Locale,
		Voice:       p.Voice,
	}

	counter, err := e.repo.RecordTurn(ctx, repository.RecordTurnInput{
		UserID: turn.UserID,
		Kind:   turn.Kind,
		At:     e.now(),
	})
	if err != nil {
		log.Error("failed to record turn", "error", err)
		return plan, nil
	}
	if NudgeDue(counter, e.opts.NudgeInterval) {
		plan.Aux = append(plan.Aux, Aux{
			Kind:       AuxNudge,
			Text:       locale.Text(s.Locale, locale.KeyDonateShort),
			ButtonText: locale.Text(s.Locale, locale.KeyDonateButton),
			ButtonURL:  e.opts.DonateURL,
		})
	}
	log.Debug("turn completed", "translation", translation, "has_explanation", explanation != "", "counter", counter)
	return plan, nil
}

// NudgeDue reports whether the support reminder fires at count. A zero interval disables it.
func NudgeDue(count int64, interval int) bool {
	return interval > 0 && count > 0 && count%int64(interval) == 0
}

func (e *Engine) IsAdmin(userID string) bool {
	return e.opts.AdminUserID != "" && userID == e.opts.AdminUserID
}

// AdminReport renders the stats report for the configured window.
func (e *Engine) AdminReport(ctx context.Context, requester string) (string, error) {
	if !e.IsAdmin(requester) {
		return "", ErrPermission
	}
	return e.reporter.Format(ctx, e.opts.StatsDays)
}

// Locale returns the user's UI locale without creating a session.
func (e *Engine) Locale(ctx context.Context, userID string) locale.Locale {
	s, err := e.repo.GetSession(ctx, userID)
	if err != nil || s == nil {
		return e.opts.DefaultLocale
	}
	return s.Locale
}

// DonateURL is the support link shown by /donate.
func (e *Engine) DonateURL() string {
	return e.opts.DonateURL
}
