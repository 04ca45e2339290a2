package browser

import (
	"encoding/json"
	"html/template"
	"regexp"
	"strings"

	"github.com/mermview/mermview/pkg/diagram"
)

// MermaidCDNURL is the pinned mermaid.js distribution loaded into the
// render page.
const MermaidCDNURL = "https://cdn.jsdelivr.net/npm/mermaid@11.12.2/dist/mermaid.esm.min.mjs"

// pageTemplate is the self-contained document loaded into each render
// page. The diagram text is placed in element context so the template
// engine escapes it; only validated numeric and enum fields are
// interpolated elsewhere.
var pageTemplate = template.Must(template.New("mermaid").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }
        body {
            background-color: {{.Background}};
            display: flex;
            justify-content: center;
            align-items: flex-start;
            min-height: 100vh;
            padding: {{.Padding}}px;
        }
        .mermaid {
            background-color: {{.Background}};
        }
        .mermaid svg {
            max-width: 100%;
            height: auto;
        }
    </style>
</head>
<body>
    <div class="mermaid">
{{.Code}}
    </div>
    <script type="module">
        import mermaid from '{{.CDNURL}}';
        mermaid.initialize({{.MermaidConfig}});
        await mermaid.run();
    </script>
</body>
</html>`))

type pageData struct {
	Background    template.CSS
	Padding       int
	Code          string
	CDNURL        template.URL
	MermaidConfig template.JS
}

// safeColor matches CSS color values (names, hex, rgb()/hsl() forms).
// Anything else falls back to white rather than reaching the document.
var safeColor = regexp.MustCompile(`^[a-zA-Z0-9#(),.% -]+$`)

func cssColor(color string) template.CSS {
	if color == "" || !safeColor.MatchString(color) {
		return "white"
	}
	return template.CSS(color)
}

// mermaidConfig is the mermaid.js initialization object derived from
// the render configuration.
func mermaidConfig(cfg diagram.Config) (template.JS, error) {
	raw, err := json.Marshal(map[string]any{
		"theme":         string(cfg.Theme),
		"startOnLoad":   true,
		"securityLevel": "loose",
		"flowchart": map[string]any{
			"useMaxWidth": true,
			"htmlLabels":  true,
		},
	})
	if err != nil {
		return "", err
	}
	return template.JS(raw), nil
}

// renderHTML builds the document for one render.
func renderHTML(code diagram.Code, cfg diagram.Config) (string, error) {
	mc, err := mermaidConfig(cfg)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	err = pageTemplate.Execute(&b, pageData{
		Background:    cssColor(cfg.Background()),
		Padding:       cfg.Padding,
		Code:          code.String(),
		CDNURL:        template.URL(MermaidCDNURL),
		MermaidConfig: mc,
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
