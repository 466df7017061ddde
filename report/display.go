package report

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

var (
	infoColor  = pterm.FgLightGreen
	warnColor  = pterm.FgYellow
	errorColor = pterm.FgRed
	fatalStyle = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	warnStyle  = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	errorStyle = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	infoStyle  = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
)

// maybeDisplay renders a diagnostic immediately if the collector's log level
// permits it, mirroring chai's Logger.handleMsg.
func (c *Collector) maybeDisplay(d *Diagnostic) {
	switch d.Severity {
	case SeverityInfo:
		if c.logLevel < LogLevelVerbose {
			return
		}
	case SeverityWarn:
		if c.logLevel < LogLevelWarn {
			return
		}
	default: // ERROR, FATAL
		if c.logLevel < LogLevelError {
			return
		}
	}

	displayBanner(d)
	fmt.Println(d.Message)

	if d.Span != nil {
		displaySourceExcerpt(d.Context, d.Span, d.Severity)
	}
}

func styleFor(sev int) (*pterm.Style, pterm.Color) {
	switch sev {
	case SeverityInfo:
		return infoStyle, infoColor
	case SeverityWarn:
		return warnStyle, warnColor
	default:
		return errorStyle, errorColor
	}
}

func displayBanner(d *Diagnostic) {
	style, color := styleFor(d.Severity)
	if d.Severity == SeverityFatal {
		style = fatalStyle
	}

	fmt.Print("\n-- ")
	label := strings.ToUpper(SeverityName(d.Severity))
	if d.Code != "" {
		label = label + " " + d.Code
	}
	style.Print(" " + label + " ")
	fmt.Print(" ")

	bannerLen := pterm.GetTerminalWidth() / 2
	if bannerLen > 60 {
		bannerLen = 60
	}
	dashCount := bannerLen - len(label) - len(d.Context.ReprPath) - 4
	if dashCount < 0 {
		dashCount = 0
	}
	fmt.Print(strings.Repeat("-", dashCount) + " ")
	color.Println(d.Context.ReprPath)
}

// maxExcerptLines bounds how many source lines a single diagnostic prints
// before eliding the middle. An `equations` or `update` block spanning a
// diagnostic (e.g. a cyclic-alias or propagator-mismatch error naming the
// whole block) can run to dozens of lines; printing all of them buries the
// caret-marked boundary the user actually needs to see.
const maxExcerptLines = 12

// displaySourceExcerpt prints the source lines spanned by a diagnostic with
// caret underlining colored to match the diagnostic's own severity (an
// INFO or WARN excerpt no longer paints its carets error-red), eliding the
// middle of spans wider than maxExcerptLines, reusing chai's
// indentation-trimming carets algorithm for the lines it does print.
func displaySourceExcerpt(ctx *CompilationContext, span *TextSpan, severity int) {
	f, err := os.Open(ctx.FilePath)
	if err != nil {
		return
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for ln := 0; sc.Scan(); ln++ {
		if span.StartLine <= ln && ln <= span.EndLine {
			lines = append(lines, strings.ReplaceAll(sc.Text(), "\t", "    "))
		}
	}
	if len(lines) == 0 {
		return
	}

	minIndent := math.MaxInt
	for _, line := range lines {
		indent := 0
		for _, ch := range line {
			if ch == ' ' {
				indent++
			} else {
				break
			}
		}
		if indent < minIndent {
			minIndent = indent
		}
	}

	_, caretColor := styleFor(severity)

	maxLineNumLen := len(strconv.Itoa(span.EndLine + 1))
	lineNumFmt := "%-" + strconv.Itoa(maxLineNumLen) + "v | "

	printLine := func(i int, line string) {
		fmt.Printf(lineNumFmt, i+span.StartLine+1)
		fmt.Println(line[minIndent:])

		fmt.Print(strings.Repeat(" ", maxLineNumLen), " | ")

		var prefix int
		if i == 0 {
			prefix = span.StartCol - minIndent
		}

		var suffix int
		if i == len(lines)-1 {
			suffix = len(line) - span.EndCol
		}

		fmt.Print(strings.Repeat(" ", prefix))
		caretColor.Println(strings.Repeat("^", len(line)-suffix-prefix-minIndent))
	}

	if len(lines) <= maxExcerptLines {
		for i, line := range lines {
			printLine(i, line)
		}
	} else {
		head, tail := maxExcerptLines/2, maxExcerptLines/2
		for i := 0; i < head; i++ {
			printLine(i, lines[i])
		}
		fmt.Print(strings.Repeat(" ", maxLineNumLen), " | ")
		fmt.Printf("... (%d lines elided) ...\n", len(lines)-head-tail)
		for i := len(lines) - tail; i < len(lines); i++ {
			printLine(i, lines[i])
		}
	}

	fmt.Println()
}

// -----------------------------------------------------------------------------
// Phase progress display (verbose mode only), grounded on
// logging.displayBeginPhase/displayEndPhase.

var phaseSpinner *pterm.SpinnerPrinter

// BeginPhase starts a spinner announcing a pipeline phase's start.
func (c *Collector) BeginPhase(name string) {
	if c.logLevel < LogLevelVerbose {
		return
	}

	phaseSpinner = pterm.DefaultSpinner.WithStyle(pterm.NewStyle(infoColor))
	phaseSpinner.SuccessPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix:       pterm.Prefix{Style: infoStyle, Text: "Done"},
	}
	phaseSpinner.FailPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix:       pterm.Prefix{Style: errorStyle, Text: "Fail"},
	}
	phaseSpinner.Start(name + "...")
}

// EndPhase stops the spinner, indicating whether the phase succeeded.
func (c *Collector) EndPhase(ok bool) {
	if phaseSpinner == nil {
		return
	}

	if ok {
		phaseSpinner.Success()
	} else {
		phaseSpinner.Fail()
	}
	phaseSpinner = nil
}

// DisplaySummary prints the final per-severity tally, mirroring
// logging.displayCompilationFinished.
func (c *Collector) DisplaySummary() {
	if c.logLevel < LogLevelWarn {
		return
	}

	s := c.Summarize()
	fmt.Print("\n")

	if s.ExitCode() == 0 {
		infoColor.Print("done. ")
	} else {
		errorColor.Print("failed. ")
	}

	fmt.Print("(")
	printCount(s.Error, "error", "errors", errorColor)
	fmt.Print(", ")
	printCount(s.Warn, "warning", "warnings", warnColor)
	fmt.Println(")")
}

func printCount(n int, singular, plural string, color pterm.Color) {
	word := plural
	if n == 1 {
		word = singular
	}

	if n == 0 {
		infoColor.Print(n)
	} else {
		color.Print(n)
	}
	fmt.Print(" ", word)
}
