package http

import (
	"bytes"
	"html/template"
	"os"

	"github.com/gofiber/fiber/v2"
)

// OpenAPIPath is where the API description is read from, relative to the working directory.
const OpenAPIPath = "api/openapi.yaml"

var docsPage = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{.Title}} · Swagger UI</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
  <style>body{margin:0;background:#fafafa}</style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: {{.SpecURL}},
      dom_id: '#swagger-ui',
      docExpansion: 'list',
      filter: true,
      displayRequestDuration: true,
      supportedSubmitMethods: ['get', 'post'],
      presets: [SwaggerUIBundle.presets.apis],
    });
  </script>
</body>
</html>`))

type docsData struct {
	Title   string
	SpecURL string
}

// SetupDocs registers Swagger UI at /docs and the raw OpenAPI description at /docs/openapi.yaml.
func SetupDocs(app *fiber.App) {
	var page bytes.Buffer
	if err := docsPage.Execute(&page, docsData{Title: "C2C Explorer API", SpecURL: "/docs/openapi.yaml"}); err != nil {
		panic("docs template: " + err.Error())
	}
	html := page.Bytes()

	app.Get("/docs", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(html)
	})

	app.Get("/docs/openapi.yaml", func(c *fiber.Ctx) error {
		data, err := os.ReadFile(OpenAPIPath)
		if err != nil {
			return errNotFound(c, "openapi.yaml not found")
		}
		c.Set(fiber.HeaderContentType, "application/yaml")
		return c.Send(data)
	})
}
