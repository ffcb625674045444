// Package tools exposes the InsightIDR client as MCP tools.
//
// Every handler follows the same path: decode the arguments into a typed
// struct, apply defaults, validate, call the client, and render the shaped
// result as indented JSON. Failures of any kind become an error result so a
// single bad call never takes the server down.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/tphakala/go-insightidr"
	"github.com/tphakala/go-insightidr/internal/logging"
)

// Outcome labels reported to the Recorder.
const (
	OutcomeSuccess   = "success"
	OutcomeInvalid   = "invalid_arguments"
	OutcomeAuth      = "auth"
	OutcomeRateLimit = "rate_limit"
	OutcomeTimeout   = "timeout"
	OutcomeAPIError  = "api_error"
	OutcomeTransport = "transport_error"
	OutcomePanic     = "panic"
)

// Recorder observes finished tool invocations.
type Recorder interface {
	ObserveTool(tool, outcome string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveTool(string, string, time.Duration) {}

// Toolset builds the MCP tools backed by one client.
type Toolset struct {
	client   *insightidr.Client
	logger   zerolog.Logger
	recorder Recorder
	validate *validator.Validate
}

// Option configures a Toolset.
type Option func(*Toolset)

// WithLogger sets the logger used for invocation logs.
func WithLogger(l zerolog.Logger) Option {
	return func(ts *Toolset) { ts.logger = l }
}

// WithRecorder sets the invocation recorder.
func WithRecorder(r Recorder) Option {
	return func(ts *Toolset) {
		if r != nil {
			ts.recorder = r
		}
	}
}

// New returns a Toolset for client.
func New(client *insightidr.Client, opts ...Option) *Toolset {
	ts := &Toolset{
		client:   client,
		logger:   zerolog.Nop(),
		recorder: nopRecorder{},
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(ts)
	}
	ts.logger = logging.Component(ts.logger, "tools")
	return ts
}

// Tools returns every tool definition paired with its handler.
func (ts *Toolset) Tools() []server.ServerTool {
	var tools []server.ServerTool
	tools = append(tools, ts.investigationTools()...)
	tools = append(tools, ts.logSearchTools()...)
	tools = append(tools, ts.alertTools()...)
	tools = append(tools, ts.assetTools()...)
	tools = append(tools, ts.userTools()...)
	tools = append(tools, ts.threatTools()...)
	tools = append(tools, ts.savedQueryTools()...)
	tools = append(tools, ts.referenceTools()...)
	return tools
}

// defaulter is implemented by argument structs with non-zero defaults.
type defaulter interface {
	setDefaults()
}

// text is returned verbatim instead of being rendered as JSON.
type text string

// handlerFunc is the typed body of a tool.
type handlerFunc[A any] func(ctx context.Context, args *A) (any, error)

// bind adapts a typed handler to the MCP handler signature.
func bind[A any](ts *Toolset, name string, fn handlerFunc[A]) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		start := time.Now()
		log := ts.logger.With().
			Str(logging.FieldTool, name).
			Str(logging.FieldCorrelationID, uuid.NewString()).
			Logger()
		outcome := OutcomeSuccess

		defer func() {
			if r := recover(); r != nil {
				outcome = OutcomePanic
				log.Error().Interface("panic", r).Msg("tool handler panicked")
				result, err = mcp.NewToolResultError(fmt.Sprintf("internal error in %s", name)), nil
			}
			elapsed := time.Since(start)
			ts.recorder.ObserveTool(name, outcome, elapsed)
			log.Debug().Str("outcome", outcome).Dur(logging.FieldDuration, elapsed).Msg("tool finished")
		}()

		args, err := decodeArgs[A](ts.validate, req.GetArguments())
		if err != nil {
			outcome = OutcomeInvalid
			log.Debug().Err(err).Msg("rejected arguments")
			return mcp.NewToolResultError(err.Error()), nil
		}

		out, err := fn(log.WithContext(ctx), args)
		if err != nil {
			outcome = outcomeOf(err)
			log.Warn().Err(err).Str("outcome", outcome).Msg("tool failed")
			return mcp.NewToolResultError(err.Error()), nil
		}

		return render(out)
	}
}

// argumentError reports arguments that passed schema decoding but not the
// handler's own cross-field checks.
type argumentError struct {
	msg string
}

func (e *argumentError) Error() string { return "invalid arguments: " + e.msg }

func invalidArgs(format string, a ...any) error {
	return &argumentError{msg: fmt.Sprintf(format, a...)}
}

func outcomeOf(err error) string {
	var argErr *argumentError
	if errors.As(err, &argErr) {
		return OutcomeInvalid
	}
	if insightidr.IsTimeout(err) {
		return OutcomeTimeout
	}
	apiErr, ok := insightidr.AsError(err)
	if !ok {
		return OutcomeTransport
	}
	switch apiErr.Kind {
	case insightidr.KindAuth:
		return OutcomeAuth
	case insightidr.KindRateLimit:
		return OutcomeRateLimit
	default:
		return OutcomeAPIError
	}
}

func render(out any) (*mcp.CallToolResult, error) {
	if s, ok := out.(text); ok {
		return mcp.NewToolResultText(string(s)), nil
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func decodeArgs[A any](v *validator.Validate, raw map[string]any) (*A, error) {
	args := new(A)
	if len(raw) > 0 {
		b, err := json.Marshal(raw)
		if err != nil {
			return nil, invalidArgs("%v", err)
		}
		if err := json.Unmarshal(b, args); err != nil {
			return nil, invalidArgs("%s", describeDecodeError(err))
		}
	}

	if d, ok := any(args).(defaulter); ok {
		d.setDefaults()
	}

	if err := v.Struct(args); err != nil {
		return nil, validationError(err)
	}
	return args, nil
}

func describeDecodeError(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("%s must be %s", typeErr.Field, jsonKind(typeErr.Type))
	}
	return err.Error()
}

func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice:
		return "an array"
	case reflect.String:
		return "a string"
	default:
		return "a " + t.String()
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return invalidArgs("%v", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Field()+" "+describeRule(fe))
	}
	return invalidArgs("%s", strings.Join(msgs, "; "))
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_with":
		return "is required together with " + strings.ToLower(fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if fe.Kind() == reflect.Slice {
			return "must contain at least " + fe.Param() + " item(s)"
		}
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "datetime":
		return "must be an ISO-8601 timestamp"
	default:
		return "failed " + fe.Tag()
	}
}
