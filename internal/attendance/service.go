// Package attendance is the record service: the typed procedures staff use to manage
// students, lectures, modules and attendance records.
package attendance

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"attendancedesk/internal/apperrors"
	"attendancedesk/internal/entity"
	"attendancedesk/internal/metrics"
)

// Authorizer decides whether the caller in ctx may use the service.
type Authorizer interface {
	Authorized(ctx context.Context) bool
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(ctx context.Context) bool

// Authorized implements Authorizer.
func (f AuthorizerFunc) Authorized(ctx context.Context) bool { return f(ctx) }

// Options tune a Service. Zero values pick defaults.
type Options struct {
	// LateGrace is how long after a lecture starts a check-in still counts as present.
	LateGrace time.Duration
	Metrics   *metrics.Procedures
	Now       func() time.Time
	NewID     func() string
}

// Service exposes every procedure. It holds no mutable state; all shared state lives in the store.
type Service struct {
	store     entity.Store
	gate      Authorizer
	validate  *validator.Validate
	metrics   *metrics.Procedures
	lateGrace time.Duration
	now       func() time.Time
	newID     func() string
}

// NewService creates a service backed by a store and guarded by gate.
func NewService(store entity.Store, gate Authorizer, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Service{
		store:     store,
		gate:      gate,
		validate:  newValidator(),
		metrics:   opts.Metrics,
		lateGrace: opts.LateGrace,
		now:       opts.Now,
		newID:     opts.NewID,
	}
}

// Authorized reports whether the caller in ctx passes the service's gate.
func (s *Service) Authorized(ctx context.Context) bool {
	return s.gate != nil && s.gate.Authorized(ctx)
}

// run gates, executes and measures one procedure. Nothing in fn runs for an unauthorized caller.
func run[T any](ctx context.Context, s *Service, procedure string, fn func(ctx context.Context) (T, error)) (T, error) {
	started := time.Now()
	var (
		out T
		err error
	)
	if !s.Authorized(ctx) {
		err = apperrors.New(apperrors.KindUnauthorized, procedure, "caller is not authorized")
	} else {
		out, err = fn(ctx)
	}
	s.metrics.Observe(procedure, started, err)
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func (s *Service) check(op string, input any) error {
	if err := s.validate.Struct(input); err != nil {
		return validationError(op, err)
	}
	return nil
}

func (s *Service) checkVar(op, name string, value any, tag string) error {
	if err := s.validate.Var(value, tag); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return apperrors.Validation(op, "%s", fieldMessage(name, verrs[0]))
		}
		return apperrors.Wrap(apperrors.KindValidation, op, err)
	}
	return nil
}

func validationError(op string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Wrap(apperrors.KindValidation, op, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe.Field(), fe))
	}
	return apperrors.Validation(op, "%s", strings.Join(msgs, "; "))
}

func fieldMessage(name string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
	case "max":
		if name == "studentId" {
			return "Student ID must be 8 characters max"
		}
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gtefield":
		return name + " must not be before startTime"
	}
	return fmt.Sprintf("%s failed %s validation", name, fe.Tag())
}
