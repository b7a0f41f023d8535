package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/vampirenirmal/wpassist/internal/pipeline"
	wperrors "github.com/vampirenirmal/wpassist/pkg/wpassist/errors"
)

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
)

// renderer prints run results. Plain mode writes raw text without markdown
// rendering or colour.
type renderer struct {
	out      io.Writer
	errOut   io.Writer
	plain    bool
	language string
	md       *glamour.TermRenderer
}

func newRenderer(out, errOut io.Writer, plain bool, language string) *renderer {
	r := &renderer{out: out, errOut: errOut, plain: plain, language: language}
	if !plain {
		md, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err == nil {
			r.md = md
		}
	}
	return r
}

func (r *renderer) style(s lipgloss.Style, text string) string {
	if r.plain {
		return text
	}
	return s.Render(text)
}

// markdown renders text through glamour, falling back to the raw text.
func (r *renderer) markdown(text string) string {
	if r.md == nil {
		return text
	}
	out, err := r.md.Render(text)
	if err != nil {
		return text
	}
	return out
}

func (r *renderer) title(text string) {
	fmt.Fprintln(r.out, r.style(titleStyle, text))
}

// failure prints the error line for a failed run.
func (r *renderer) failure(err error) {
	f := wperrors.Describe(err)
	fmt.Fprintln(r.errOut, r.style(errorStyle, fmt.Sprintf("error [%s]: %s", f.Kind, f.Message)))
}

// result prints one run. It returns errReported when the run failed.
func (r *renderer) result(res *pipeline.Result, err error) error {
	if err != nil {
		r.failure(err)
		return errReported
	}

	for _, fragment := range res.Fragments {
		if r.plain {
			fmt.Fprintln(r.out, fragment)
			fmt.Fprintln(r.out)
			continue
		}
		fmt.Fprint(r.out, r.markdown(fmt.Sprintf("```%s\n%s\n```\n", r.language, fragment)))
	}

	if res.NoCode() {
		fmt.Fprintln(r.out, r.style(noticeStyle, fmt.Sprintf("No %s code found in the response.", strings.ToUpper(r.language))))
		if res.Reasoning == nil {
			fmt.Fprintln(r.out, "Run again with --reasoning to see the full answer.")
		}
	}

	if res.Reasoning != nil {
		r.title("Thinking process:")
		fmt.Fprintln(r.out, r.markdown(*res.Reasoning))
	}

	if res.Verdict != nil {
		r.title("QA on provided code:")
		badge := r.style(failStyle, "FAILED")
		if res.Verdict.Passed {
			badge = r.style(passStyle, "PASSED")
		}
		fmt.Fprintln(r.out, badge)
		fmt.Fprintln(r.out, r.markdown(res.Verdict.Text))
	}

	return nil
}
