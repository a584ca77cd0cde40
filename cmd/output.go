package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/spigell/talent-scout/internal/ai"
	"github.com/spigell/talent-scout/internal/github"
	"github.com/spigell/talent-scout/internal/profile"
	"github.com/spigell/talent-scout/internal/search"
)

const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

type searchView struct {
	ID          string              `json:"search_id" yaml:"search_id"`
	Requirement *ai.RequirementSpec `json:"requirement" yaml:"requirement"`
	Matches     []ai.MatchResult    `json:"matches" yaml:"matches"`
	Failures    []failureView       `json:"failures,omitempty" yaml:"failures,omitempty"`
}

type failureView struct {
	Handle string `json:"handle" yaml:"handle"`
	Error  string `json:"error" yaml:"error"`
}

func viewOfSearch(res *search.Result) searchView {
	v := searchView{ID: res.ID, Requirement: res.Requirement, Matches: res.Matches}
	for _, f := range res.Failures {
		v.Failures = append(v.Failures, failureView{Handle: f.Handle, Error: f.Err.Error()})
	}
	return v
}

// render writes v to w in the requested format.
func render(w io.Writer, format string, v any) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "", OutputTable:
		return renderTable(w, v)
	default:
		return fmt.Errorf("unknown output format %q (use table, json or yaml)", format)
	}
}

func renderTable(w io.Writer, v any) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	switch val := v.(type) {
	case searchView:
		fmt.Fprintf(tw, "search %s\n\n", val.ID)
		writeMatches(tw, val.Matches)
		if len(val.Failures) > 0 {
			fmt.Fprintln(tw, "\nFAILED\tERROR")
			for _, f := range val.Failures {
				fmt.Fprintf(tw, "%s\t%s\n", f.Handle, f.Error)
			}
		}
	case []ai.MatchResult:
		writeMatches(tw, val)
	case *profile.CandidateProfile:
		writePairs(tw, [][2]string{
			{"handle", val.Handle()},
			{"name", val.Identity.DisplayName},
			{"location", val.Identity.Location},
			{"url", val.Identity.HTMLURL},
			{"repositories", strconv.Itoa(len(val.Repositories))},
			{"stars", strconv.Itoa(val.TotalStars)},
			{"forks", strconv.Itoa(val.TotalForks)},
			{"languages", strings.Join(val.PrimaryLanguages, ", ")},
			{"experience", fmt.Sprintf("%d years", val.ExperienceYears)},
			{"recently active", strconv.FormatBool(val.RecentActivity)},
			{"skills", strings.Join(val.Skills, ", ")},
		})
	case *ai.RequirementSpec:
		writePairs(tw, [][2]string{
			{"experience level", string(val.Seniority)},
			{"experience years", strconv.Itoa(val.RequiredExperienceYears())},
			{"skills", strings.Join(val.Skills, ", ")},
			{"technologies", strings.Join(val.Technologies, ", ")},
			{"domain", val.Domain},
			{"summary", val.Summary},
		})
	case *ai.DocumentExtraction:
		writePairs(tw, [][2]string{
			{"role", val.RoleType},
			{"company", val.CompanyInfo},
			{"skills", strings.Join(val.Skills, ", ")},
			{"requirements", strings.Join(val.Requirements, "; ")},
			{"summary", val.Summary},
		})
	case []*github.User:
		fmt.Fprintln(tw, "LOGIN\tNAME\tLOCATION\tREPOS\tURL")
		for _, u := range val {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", u.Login, u.Name, u.Location, u.PublicRepos, u.HTMLURL)
		}
	default:
		return render(w, OutputYAML, v)
	}

	return tw.Flush()
}

func writeMatches(w io.Writer, matches []ai.MatchResult) {
	fmt.Fprintln(w, "RANK\tHANDLE\tSCORE\tMETHOD\tSTRENGTHS\tCONCERNS")
	for i, m := range matches {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, m.Handle, strconv.FormatFloat(m.Score, 'f', -1, 64), m.Method,
			strings.Join(m.Strengths, "; "), strings.Join(m.Concerns, "; "),
		)
	}
}

func writePairs(w io.Writer, pairs [][2]string) {
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		fmt.Fprintf(w, "%s:\t%s\n", p[0], p[1])
	}
}
