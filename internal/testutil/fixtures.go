// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/openapi-gui/document"
)

// PetstorePathsYAML is a path-only document whose schemas point into
// PetstoreComponentsYAML, as the editor keeps them.
const PetstorePathsYAML = `openapi: 3.0.3
info:
  title: Swagger Petstore
  description: A sample API that uses a petstore as an example.
  version: 1.0.0
  contact:
    name: API Support
    email: support@example.com
  license:
    name: MIT
servers:
  - url: https://{region}.petstore.example.com/v1
    variables:
      region:
        default: eu
tags:
  - name: pets
    description: Everything about your pets
paths:
  /pets:
    get:
      tags: [pets]
      summary: List all pets
      operationId: listPets
      parameters:
        - name: limit
          in: query
          description: How many items to return at one time
          required: false
          schema:
            type: integer
            format: int32
      responses:
        "200":
          description: A paged array of pets
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Pets"
        default:
          description: unexpected error
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Error"
    post:
      tags: [pets]
      summary: Create a pet
      operationId: createPets
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: "#/components/schemas/Pet"
      responses:
        "201":
          description: Null response
  /pets/{petId}:
    get:
      tags: [pets]
      summary: Info for a specific pet
      operationId: showPetById
      parameters:
        - name: petId
          in: path
          required: true
          description: The id of the pet to retrieve
          schema:
            type: string
      security:
        - api_key: []
      responses:
        "200":
          description: Expected response to a valid request
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Pet"
`

// PetstoreComponentsYAML holds the component definitions referenced by
// PetstorePathsYAML.
const PetstoreComponentsYAML = `schemas:
  Pet:
    type: object
    required: [id, name]
    properties:
      id:
        type: integer
        format: int64
        example: 10
      name:
        type: string
        example: doggie
      tag:
        type: string
  Pets:
    type: array
    items:
      $ref: "#/components/schemas/Pet"
  Error:
    type: object
    required: [code, message]
    properties:
      code:
        type: integer
        format: int32
      message:
        type: string
securitySchemes:
  api_key:
    type: apiKey
    name: api_key
    in: header
`

// ParseYAML parses src into a document, failing the test on error.
func ParseYAML(t *testing.T, src string) *document.Node {
	t.Helper()
	doc, err := document.Parse([]byte(src), "fixture.yaml")
	if err != nil {
		t.Fatalf("Failed to parse fixture: %v", err)
	}
	return doc
}

// NewPetstorePaths returns a fresh copy of PetstorePathsYAML.
func NewPetstorePaths(t *testing.T) *document.Node {
	t.Helper()
	return ParseYAML(t, PetstorePathsYAML)
}

// NewPetstoreComponents returns a fresh copy of PetstoreComponentsYAML.
func NewPetstoreComponents(t *testing.T) *document.Node {
	t.Helper()
	return ParseYAML(t, PetstoreComponentsYAML)
}

// NewPetstore returns the full petstore document with the components
// merged in under "components".
func NewPetstore(t *testing.T) *document.Node {
	t.Helper()
	doc := NewPetstorePaths(t)
	doc.Set("components", NewPetstoreComponents(t))
	return doc
}

// WriteTempYAML marshals a document to YAML and writes it to a temporary file.
// Returns the path to the temporary file.
// The file is automatically cleaned up when the test completes (via t.TempDir).
func WriteTempYAML(t *testing.T, doc any) string {
	t.Helper()

	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal document to YAML: %v", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to write temporary YAML file: %v", err)
	}

	return tmpFile
}

// WriteTempJSON marshals a document to JSON and writes it to a temporary file.
// Returns the path to the temporary file.
func WriteTempJSON(t *testing.T, doc any) string {
	t.Helper()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal document to JSON: %v", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "test.json")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to write temporary JSON file: %v", err)
	}

	return tmpFile
}
