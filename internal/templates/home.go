// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package templates renders the server-side pages.
package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/iteratehackerspace/silicondzor/internal/models"
)

// Home renders the calendar page. The event list is embedded as JSON so the
// frontend bundle can boot without an extra request.
func Home(events []models.Event) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		payload, err := eventsJSON(events)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(w, `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <link rel="shortcut icon" type="image/x-icon" href="/static/favicon.ico">
  <link rel="preload" href="/static/bundle.js" as="script">
  <link href="/static/styles.css" rel="stylesheet" type="text/css">
  <link href="/static/react-big-calendar.css" rel="stylesheet" type="text/css">
  <script>window.__ALL_TECH_EVENTS__ = %s</script>
</head>
<body>
  <div id="container"></div>
  <script src="/static/bundle.js"></script>
</body>
</html>
`, payload)
		return err
	})
}

// eventsJSON marshals the events and defuses any "</script" sequence an
// event title or description could smuggle into the page.
func eventsJSON(events []models.Event) (string, error) {
	if events == nil {
		events = []models.Event{}
	}
	b, err := json.Marshal(events)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(string(b), "</", `<\/`), nil
}
