package ai

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeniority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Seniority
		wantErr bool
	}{
		{in: "junior", want: Junior},
		{in: " Senior ", want: Senior},
		{in: "LEAD", want: Lead},
		{in: "mid", want: Mid},
		{in: "expert", wantErr: true},
		{in: "middle", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseSeniority(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequiredExperienceYears(t *testing.T) {
	assert.Equal(t, 1, (&RequirementSpec{Seniority: Junior}).RequiredExperienceYears())
	assert.Equal(t, 3, (&RequirementSpec{Seniority: Mid}).RequiredExperienceYears())
	assert.Equal(t, 5, (&RequirementSpec{Seniority: Senior}).RequiredExperienceYears())
	assert.Equal(t, 8, (&RequirementSpec{Seniority: Lead}).RequiredExperienceYears())
	assert.Equal(t, 2, (&RequirementSpec{Seniority: Lead, ExperienceYears: 2}).RequiredExperienceYears())
	assert.Equal(t, 0, (&RequirementSpec{}).RequiredExperienceYears())
}

func TestRequirementSpecValidate(t *testing.T) {
	ok := &RequirementSpec{Skills: []string{"Go"}, Seniority: Senior}
	assert.NoError(t, ok.Validate())

	assert.Error(t, (&RequirementSpec{Seniority: "expert"}).Validate())
	assert.Error(t, (&RequirementSpec{Seniority: Mid, Skills: []string{""}}).Validate())
	assert.Error(t, (&RequirementSpec{Seniority: Mid, ExperienceYears: -1}).Validate())
}

func TestMatchResultValidate(t *testing.T) {
	assert.NoError(t, (&MatchResult{Handle: "a", Score: 0}).Validate())
	assert.NoError(t, (&MatchResult{Handle: "a", Score: 100}).Validate())
	assert.Error(t, (&MatchResult{Handle: "a", Score: 150}).Validate())
	assert.Error(t, (&MatchResult{Handle: "a", Score: -1}).Validate())
	assert.Error(t, (&MatchResult{Score: 50}).Validate())
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]string{"React", " react ", "Go", "", "GO", "AWS"})
	assert.Equal(t, []string{"React", "Go", "AWS"}, got)
	assert.Empty(t, Dedupe(nil))
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: `{"a":1}`, want: `{"a":1}`},
		{name: "fenced", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", in: "```\n[1,2]\n```", want: `[1,2]`},
		{name: "prose around", in: "Sure! Here it is:\n{\"a\":{\"b\":2}}\nHope this helps.", want: `{"a":{"b":2}}`},
		{name: "array after prose", in: "Result: [{\"x\":1}] done", want: `[{"x":1}]`},
		{name: "trailing prose", in: "{\"matches\":[{\"score\":1}]}\nHope this helps.", want: `{"matches":[{"score":1}]}`},
		{name: "fenced with trailing prose", in: "```json\n[1]\n```\nLet me know.", want: `[1]`},
		{name: "no json", in: "nothing here", want: "nothing here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExtractJSON(tt.in))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var target map[string]any
	require.NoError(t, DecodeJSON("```json\n{\"ok\":true}\n```", &target))
	assert.Equal(t, true, target["ok"])

	err := DecodeJSON("I cannot help with that", &target)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedOutput)

	var malformed *MalformedOutputError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, KindUnparsable, malformed.Kind)

	target = nil
	require.NoError(t, DecodeJSON("{\"ok\":false}\nHope this helps.", &target))
	assert.Equal(t, false, target["ok"])

	err = DecodeJSON("   ", &target)
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, KindUnparsable, malformed.Kind)
}

func TestMalformedOutputError(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("interpret: %w", Malformed(KindInvalidValue, "experience_level", `"expert"`, cause))

	assert.ErrorIs(t, err, ErrMalformedOutput)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "invalid_value")
	assert.Contains(t, err.Error(), "experience_level")
}
