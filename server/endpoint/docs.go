package endpoint

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

// Documentation routes.
const (
	OpenAPIYAMLURL = "/openapi.yaml"
	OpenAPIJSONURL = "/openapi.json"
	ReDocURL       = "/redoc"
)

//go:embed openapi.yaml
var openAPISpec []byte

// Docs serves the OpenAPI document in YAML and JSON plus the Swagger UI and
// ReDoc pages that render it.
type Docs struct {
	yamlDoc []byte
	jsonDoc []byte
	title   string
}

// NewDocs builds the documentation for info, stamping its name, version and
// description into the embedded OpenAPI document.
func NewDocs(info ServiceInfo) (*Docs, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(openAPISpec, &doc); err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}

	meta, _ := doc["info"].(map[string]any)
	if meta == nil {
		meta = map[string]any{}
		doc["info"] = meta
	}
	if info.Name != "" {
		meta["title"] = info.Name
	}
	if info.Version != "" {
		meta["version"] = info.Version
	}
	if info.Description != "" {
		meta["description"] = info.Description
	}

	yamlDoc, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode openapi yaml: %w", err)
	}
	jsonDoc, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode openapi json: %w", err)
	}

	title, _ := meta["title"].(string)
	return &Docs{yamlDoc: yamlDoc, jsonDoc: jsonDoc, title: title}, nil
}

// Register mounts the documentation routes on r.
func (d *Docs) Register(r gin.IRoutes) {
	r.GET(OpenAPIYAMLURL, d.YAML)
	r.GET(OpenAPIJSONURL, d.JSON)
	r.GET(DocsURL, d.SwaggerUI)
	r.GET(ReDocURL, d.ReDoc)
}

// YAML serves the OpenAPI document as YAML.
func (d *Docs) YAML(c *gin.Context) {
	c.Data(http.StatusOK, "application/yaml; charset=utf-8", d.yamlDoc)
}

// JSON serves the OpenAPI document as JSON.
func (d *Docs) JSON(c *gin.Context) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", d.jsonDoc)
}

// SwaggerUI serves an interactive page for the OpenAPI document.
func (d *Docs) SwaggerUI(c *gin.Context) {
	d.render(c, swaggerUITemplate)
}

// ReDoc serves a read-only reference page for the OpenAPI document.
func (d *Docs) ReDoc(c *gin.Context) {
	d.render(c, redocTemplate)
}

func (d *Docs) render(c *gin.Context, tmpl *template.Template) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	data := struct{ Title, SpecURL string }{d.title, OpenAPIJSONURL}
	if err := tmpl.Execute(c.Writer, data); err != nil {
		_ = c.Error(err)
	}
}

var swaggerUITemplate = template.Must(template.New("swagger").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}} - Swagger UI</title>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>
window.ui = SwaggerUIBundle({url: "{{.SpecURL}}", dom_id: "#swagger-ui"});
</script>
</body>
</html>
`))

var redocTemplate = template.Must(template.New("redoc").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}} - ReDoc</title>
</head>
<body>
<redoc spec-url="{{.SpecURL}}"></redoc>
<script src="https://cdn.jsdelivr.net/npm/redoc@2/bundles/redoc.standalone.js"></script>
</body>
</html>
`))
