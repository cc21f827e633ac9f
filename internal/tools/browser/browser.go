// Package browser implements the browser tool executor (C2): text,
// html, and screenshot modes over a Playwright-driven page, with the
// URL and SSRF policy and output-truncation rules of spec.md §4.2.
//
// Grounded on the teacher's go.mod browser-automation stack
// (playwright-community/playwright-go for the driver,
// PuerkitoBio/goquery + JohannesKaufmann/html-to-markdown for text
// extraction) and internal/net/ssrf for the resolved-host policy.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"

	"github.com/agentcore/turnengine/internal/agentstate"
	"github.com/agentcore/turnengine/internal/config"
	"github.com/agentcore/turnengine/internal/net/ssrf"
)

const (
	textTruncateBytes = 16 * 1024
	htmlTruncateBytes = 24 * 1024
	truncatedSuffix   = "… (truncated)"
)

// Tool implements the "browser" tool executor.
type Tool struct {
	Runtime *config.Runtime

	// newPage is a seam over Playwright page construction so tests
	// can supply a fake without a real browser binary.
	newPage func(ctx context.Context, timeout time.Duration) (Page, func(), error)
}

// Page is the subset of Playwright page behavior the tool needs.
type Page interface {
	Goto(url string) error
	Content() (string, error)
	Screenshot() ([]byte, error)
}

// New builds the browser tool against a real Playwright-launched
// Chromium instance.
func New(rt *config.Runtime) *Tool {
	return &Tool{Runtime: rt, newPage: launchPlaywrightPage}
}

func (t *Tool) Name() string        { return "browser" }
func (t *Tool) Description() string { return "Fetch a web page as text, HTML, or a screenshot." }

func (t *Tool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"url": {"type": "string"},
			"mode": {"type": "string", "enum": ["text", "html", "screenshot"]}
		},
		"required": ["url", "mode"]
	}`)
}

func (t *Tool) IsEnabled(actx *agentstate.Context) bool {
	return t.Runtime.Snapshot().IsBrowserEnabled()
}

type params struct {
	URL  string `json:"url"`
	Mode string `json:"mode"`
}

func (t *Tool) Execute(ctx context.Context, actx *agentstate.Context, raw json.RawMessage) (*agentstate.ToolResult, error) {
	var p params
	if err := json.Unmarshal(raw, &p); err != nil {
		return agentstate.Fail(agentstate.FailureValidation, "invalid parameters: "+err.Error()), nil
	}

	normalized, err := normalizeURL(p.URL)
	if err != nil {
		return agentstate.Fail(agentstate.FailureValidation, err.Error()), nil
	}
	parsed, err := url.Parse(normalized)
	if err != nil {
		return agentstate.Fail(agentstate.FailureValidation, "Only http and https URLs are allowed"), nil
	}
	if err := ssrf.ValidatePublicHostname(parsed.Hostname()); err != nil {
		return agentstate.Fail(agentstate.FailureValidation, err.Error()), nil
	}

	snap := t.Runtime.Snapshot()
	timeout := time.Duration(snap.Settings().Tools.BrowserTimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	page, closePage, err := t.newPage(ctx, timeout)
	if err != nil {
		return agentstate.Fail(agentstate.FailureUpstreamError, err.Error()), nil
	}
	defer closePage()

	if err := page.Goto(normalized); err != nil {
		return agentstate.Fail(agentstate.FailureUpstreamError, err.Error()), nil
	}

	switch p.Mode {
	case "html":
		html, err := page.Content()
		if err != nil {
			return agentstate.Fail(agentstate.FailureUpstreamError, err.Error()), nil
		}
		return agentstate.Ok(truncate(html, htmlTruncateBytes), nil), nil

	case "text":
		html, err := page.Content()
		if err != nil {
			return agentstate.Fail(agentstate.FailureUpstreamError, err.Error()), nil
		}
		text, err := extractText(html)
		if err != nil {
			return agentstate.Fail(agentstate.FailureUpstreamError, err.Error()), nil
		}
		return agentstate.Ok(truncate(text, textTruncateBytes), nil), nil

	case "screenshot":
		shot, err := page.Screenshot()
		if err != nil {
			return agentstate.Fail(agentstate.FailureUpstreamError, err.Error()), nil
		}
		normalized, err := normalizeScreenshot(shot)
		if err != nil {
			return agentstate.Fail(agentstate.FailureUpstreamError, err.Error()), nil
		}
		filename := "screenshot.png"
		if normalized.contentType == "image/jpeg" {
			filename = "screenshot.jpg"
		}
		actx.AddAttachment(agentstate.Attachment{
			Type:     agentstate.AttachmentImage,
			Filename: filename,
			MimeType: normalized.contentType,
			Bytes:    normalized.buffer,
		})
		return agentstate.Ok("captured "+filename, nil), nil

	default:
		return agentstate.Fail(agentstate.FailureValidation, "unknown mode: "+p.Mode), nil
	}
}

func normalizeURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("url is required")
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed, nil
	}
	if !strings.Contains(trimmed, "://") {
		return "https://" + trimmed, nil
	}
	return "", fmt.Errorf("Only http and https URLs are allowed")
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + truncatedSuffix
}

func extractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript").Remove()
	converter := md.NewConverter("", true, nil)
	out, err := converter.ConvertString(mustOuterHTML(doc))
	if err != nil {
		return strings.TrimSpace(doc.Text()), nil
	}
	return out, nil
}

func mustOuterHTML(doc *goquery.Document) string {
	html, err := doc.Html()
	if err != nil {
		return ""
	}
	return html
}

func launchPlaywrightPage(ctx context.Context, timeout time.Duration) (Page, func(), error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, func() {}, fmt.Errorf("browser: start playwright: %w", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{Headless: playwright.Bool(true)})
	if err != nil {
		pw.Stop()
		return nil, func() {}, fmt.Errorf("browser: launch chromium: %w", err)
	}
	page, err := browser.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, func() {}, fmt.Errorf("browser: new page: %w", err)
	}
	page.SetDefaultTimeout(float64(timeout.Milliseconds()))

	cleanup := func() {
		browser.Close()
		pw.Stop()
	}
	return &playwrightPage{page: page}, cleanup, nil
}

type playwrightPage struct {
	page playwright.Page
}

func (p *playwrightPage) Goto(url string) error {
	_, err := p.page.Goto(url)
	return err
}

func (p *playwrightPage) Content() (string, error) {
	return p.page.Content()
}

func (p *playwrightPage) Screenshot() ([]byte, error) {
	return p.page.Screenshot()
}
