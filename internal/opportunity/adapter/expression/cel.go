package expression

import (
	"fmt"
	"strings"
	"time"

	"careerhub-client/internal/opportunity/domain/model"
	apperrors "careerhub-client/internal/shared/errors"

	"github.com/google/cel-go/cel"
)

// Compiler turns filter expressions such as
//
//	source == "linkedin" && "Python" in skills && days_left < 30
//
// into predicates over opportunities.
//
// Variables: title, source, location, description, link, deadline (string,
// "" when absent), has_deadline (bool), days_left (int, 0 when there is no
// deadline) and skills (list of strings).
type Compiler struct {
	env *cel.Env
	now func() time.Time
}

// NewCompiler builds the expression environment.
func NewCompiler() (*Compiler, error) {
	env, err := cel.NewEnv(
		cel.Variable("title", cel.StringType),
		cel.Variable("source", cel.StringType),
		cel.Variable("location", cel.StringType),
		cel.Variable("description", cel.StringType),
		cel.Variable("link", cel.StringType),
		cel.Variable("deadline", cel.StringType),
		cel.Variable("has_deadline", cel.BoolType),
		cel.Variable("days_left", cel.IntType),
		cel.Variable("skills", cel.ListType(cel.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create expression environment: %w", err)
	}
	return &Compiler{env: env, now: time.Now}, nil
}

// WithClock overrides the clock days_left is computed against.
func (c *Compiler) WithClock(now func() time.Time) *Compiler {
	c.now = now
	return c
}

// Compile checks expr and returns a predicate evaluating it. A syntax or type
// error, or an expression that is not boolean, is a ValidationError.
func (c *Compiler) Compile(expr string) (model.Predicate, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return func(model.Opportunity) (bool, error) { return true, nil }, nil
	}

	ast, issues := c.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Invalid filter expression: %v", issues.Err())).
			WithComponent("opportunity")
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Filter expression must be boolean, got %s", ast.OutputType())).
			WithComponent("opportunity")
	}

	program, err := c.env.Program(ast)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create filter program").WithCause(err)
	}

	return func(o model.Opportunity) (bool, error) {
		out, _, err := program.Eval(c.activation(o))
		if err != nil {
			return false, apperrors.NewValidationError(fmt.Sprintf("Filter expression failed on opportunity %d: %v", o.ID, err))
		}
		result, ok := out.Value().(bool)
		if !ok {
			return false, apperrors.NewValidationError("Filter expression did not return a boolean value")
		}
		return result, nil
	}, nil
}

func (c *Compiler) activation(o model.Opportunity) map[string]interface{} {
	var daysLeft int64
	if !o.Deadline.IsZero() {
		daysLeft = int64(o.Deadline.DaysFrom(c.now()))
	}
	skills := o.RequiredSkills
	if skills == nil {
		skills = []string{}
	}
	return map[string]interface{}{
		"title":        o.Title,
		"source":       o.Source,
		"location":     o.Location,
		"description":  o.Description,
		"link":         o.Link,
		"deadline":     o.Deadline.String(),
		"has_deadline": !o.Deadline.IsZero(),
		"days_left":    daysLeft,
		"skills":       skills,
	}
}
