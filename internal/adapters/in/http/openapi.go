package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var openapiYAML []byte

// LoadSpec parses and validates the embedded API description.
func LoadSpec(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiYAML)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	// Match any host the service is reached through.
	doc.Servers = nil
	return doc, nil
}

func newRouter(doc *openapi3.T) (routers.Router, error) {
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}
	return router, nil
}

// swaggerDoc serves the embedded document to echo-swagger through the swag registry.
type swaggerDoc struct {
	json string
}

func (d swaggerDoc) ReadDoc() string {
	return d.json
}

var registerDocOnce sync.Once

func registerSwaggerDoc(doc *openapi3.T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode openapi document: %w", err)
	}
	registerDocOnce.Do(func() {
		swag.Register(swag.Name, swaggerDoc{json: string(raw)})
	})
	return nil
}
