// Package interpret turns free-text hiring criteria and job documents into
// structured values using a reasoning collaborator. Every answer goes
// through a strict parse-then-validate step; nothing is guessed.
package interpret

import (
	_ "embed"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/talent-scout/internal/ai"
	"github.com/spigell/talent-scout/internal/logger"
	"github.com/spigell/talent-scout/internal/utils"
)

const defaultMaxLogLength = 500

var (
	//go:embed prompts/requirements.md
	requirementsInstruction string

	//go:embed prompts/document.md
	documentInstruction string

	// ErrEmptyInput is returned before any call when there is nothing to interpret.
	ErrEmptyInput = errors.New("nothing to interpret")
)

// Interpreter performs one reasoning round-trip per call and never retries.
type Interpreter struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

func New(generator ai.Generator, log *zap.Logger, maxLogLength int) *Interpreter {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &Interpreter{
		generator: generator,
		logger:    logger.OrNop(log),
		maxLogLen: maxLogLength,
	}
}

type requirementAnswer struct {
	Skills          []string `json:"skills"`
	ExperienceLevel string   `json:"experience_level"`
	ExperienceYears *int     `json:"experience_years"`
	Technologies    []string `json:"technologies"`
	Domain          *string  `json:"domain"`
	Summary         *string  `json:"summary"`
}

type documentAnswer struct {
	Skills       []string `json:"skills"`
	Requirements []string `json:"requirements"`
	CompanyInfo  *string  `json:"company_info"`
	RoleType     *string  `json:"role_type"`
	Summary      *string  `json:"summary"`
}

// InterpretRequirements converts free text into a RequirementSpec. A
// collaborator answer that cannot be parsed or validated fails with an
// error matching ai.ErrMalformedOutput.
func (i *Interpreter) InterpretRequirements(ctx context.Context, text string) (*ai.RequirementSpec, error) {
	raw, err := i.ask(ctx, "requirements", requirementsInstruction, text)
	if err != nil {
		return nil, err
	}

	spec, err := parseRequirements(raw)
	if err != nil {
		i.reject("requirements", raw, err)
		return nil, fmt.Errorf("interpret requirements: %w", err)
	}

	i.logger.Debug("requirements interpreted",
		zap.Strings("skills", spec.Skills),
		zap.String("experience_level", string(spec.Seniority)),
		zap.Int("required_years", spec.RequiredExperienceYears()),
	)

	return spec, nil
}

// ExtractFromDocument converts the text of a job document into a
// DocumentExtraction under the same contract as InterpretRequirements.
func (i *Interpreter) ExtractFromDocument(ctx context.Context, text string) (*ai.DocumentExtraction, error) {
	raw, err := i.ask(ctx, "document", documentInstruction, "Extract information from this document:\n\n"+text)
	if err != nil {
		return nil, err
	}

	doc, err := parseDocument(raw)
	if err != nil {
		i.reject("document", raw, err)
		return nil, fmt.Errorf("extract from document: %w", err)
	}

	return doc, nil
}

func (i *Interpreter) ask(ctx context.Context, kind, instruction, text string) (string, error) {
	if i == nil || i.generator == nil {
		return "", errors.New("reasoning collaborator is not configured")
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}

	log := logger.WithCommonFields(i.logger, "", i.generator.Model())

	log.Debug("interpret request",
		zap.String("kind", kind),
		zap.Int("input_length", utf8.RuneCountInString(text)),
		zap.String("input_preview", utils.TruncateForLog(text, i.maxLogLen)),
	)

	raw, err := i.generator.GenerateContent(ctx, instruction, text)
	if err != nil {
		return "", fmt.Errorf("interpret %s: %w", kind, err)
	}

	log.Debug("interpret response",
		zap.String("kind", kind),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, i.maxLogLen)),
	)

	return raw, nil
}

func (i *Interpreter) reject(kind, raw string, err error) {
	i.logger.Warn("reasoning output rejected",
		zap.String("kind", kind),
		zap.String("response_preview", utils.TruncateForLog(raw, i.maxLogLen)),
		zap.Error(err),
	)
}

func parseRequirements(raw string) (*ai.RequirementSpec, error) {
	cleaned := ai.ExtractJSON(raw)
	if cleaned == "" {
		return nil, &ai.MalformedOutputError{Kind: ai.KindUnparsable, Detail: "empty answer", Raw: raw}
	}

	if err := check(requirementSchema, cleaned); err != nil {
		return nil, withRaw(err, raw)
	}

	var answer requirementAnswer
	if err := json.Unmarshal([]byte(cleaned), &answer); err != nil {
		return nil, &ai.MalformedOutputError{Kind: ai.KindSchema, Cause: err, Raw: raw}
	}

	level, err := ai.ParseSeniority(answer.ExperienceLevel)
	if err != nil {
		return nil, &ai.MalformedOutputError{Kind: ai.KindInvalidValue, Field: "experience_level", Cause: err, Raw: raw}
	}

	spec := &ai.RequirementSpec{
		Skills:       ai.Dedupe(answer.Skills),
		Seniority:    level,
		Technologies: ai.Dedupe(answer.Technologies),
		Domain:       strings.TrimSpace(deref(answer.Domain)),
		Summary:      strings.TrimSpace(deref(answer.Summary)),
	}
	if answer.ExperienceYears != nil {
		spec.ExperienceYears = *answer.ExperienceYears
	}

	if err := spec.Validate(); err != nil {
		return nil, &ai.MalformedOutputError{Kind: ai.KindInvalidValue, Cause: err, Raw: raw}
	}

	return spec, nil
}

func parseDocument(raw string) (*ai.DocumentExtraction, error) {
	cleaned := ai.ExtractJSON(raw)
	if cleaned == "" {
		return nil, &ai.MalformedOutputError{Kind: ai.KindUnparsable, Detail: "empty answer", Raw: raw}
	}

	if err := check(documentSchema, cleaned); err != nil {
		return nil, withRaw(err, raw)
	}

	var answer documentAnswer
	if err := json.Unmarshal([]byte(cleaned), &answer); err != nil {
		return nil, &ai.MalformedOutputError{Kind: ai.KindSchema, Cause: err, Raw: raw}
	}

	return &ai.DocumentExtraction{
		Skills:       ai.Dedupe(answer.Skills),
		Requirements: ai.Dedupe(answer.Requirements),
		CompanyInfo:  strings.TrimSpace(deref(answer.CompanyInfo)),
		RoleType:     strings.TrimSpace(deref(answer.RoleType)),
		Summary:      strings.TrimSpace(deref(answer.Summary)),
	}, nil
}

func withRaw(err error, raw string) error {
	var malformed *ai.MalformedOutputError
	if errors.As(err, &malformed) {
		malformed.Raw = raw
	}
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
