package spec

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseError reports a document that could not be turned into a Document:
// malformed YAML/JSON, a duplicated (path, method) pair, a non-boolean
// requestBody.required, an unparsable declared media type, or a dangling
// requestBody $ref. Load-time failures are fatal; callers must not serve
// traffic from a partially loaded document.
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("spec: %s: %v", e.Msg, e.Err)
	}
	return "spec: " + e.Msg
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseErrorf(format string, args ...any) error {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

// operationMethods are the path-item keys that name operations. Any other
// key under a path (summary, description, parameters, servers) is ignored.
var operationMethods = map[string]bool{
	"get": true, "put": true, "post": true, "delete": true,
	"options": true, "head": true, "patch": true, "trace": true,
}

// Load parses raw OpenAPI document bytes (YAML or JSON) into a Document.
// Extraction is strict over the subset it reads and permissive about
// everything else: unknown fields are skipped, but anything it does read
// that is not confidently interpretable fails with a ParseError.
func Load(raw []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, &ParseError{Msg: "document is not well-formed YAML/JSON", Err: err}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return newDocument(), nil
	}

	top := deref(root.Content[0])
	if top.Kind != yaml.MappingNode {
		return nil, parseErrorf("top-level value is not a mapping")
	}

	bodies, err := componentRequestBodies(top)
	if err != nil {
		return nil, err
	}

	doc := newDocument()
	paths := mappingValue(top, "paths")
	if paths == nil {
		return doc, nil
	}
	if paths.Kind != yaml.MappingNode {
		return nil, parseErrorf("paths is not a mapping")
	}

	for i := 0; i < len(paths.Content); i += 2 {
		path := paths.Content[i].Value
		item := deref(paths.Content[i+1])
		if item.Kind != yaml.MappingNode {
			return nil, parseErrorf("path %s is not a mapping", path)
		}
		for j := 0; j < len(item.Content); j += 2 {
			method := strings.ToLower(item.Content[j].Value)
			if !operationMethods[method] {
				continue
			}
			op, err := loadOperation(path, method, deref(item.Content[j+1]), bodies)
			if err != nil {
				return nil, err
			}
			if err := doc.add(op); err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}

func loadOperation(path, method string, node *yaml.Node, bodies map[string]*yaml.Node) (*Operation, error) {
	op := &Operation{Key: OperationKey{Path: path, Method: NormalizeMethod(method)}}
	if node.Kind != yaml.MappingNode {
		return nil, parseErrorf("operation %s is not a mapping", op.Key)
	}

	body := mappingValue(node, "requestBody")
	if body == nil {
		return op, nil
	}
	body, err := resolveRequestBody(op.Key, body, bodies)
	if err != nil {
		return nil, err
	}

	if required := mappingValue(body, "required"); required != nil {
		if required.Kind != yaml.ScalarNode || required.ShortTag() != "!!bool" {
			return nil, parseErrorf("operation %s: requestBody.required is not a boolean", op.Key)
		}
		if err := required.Decode(&op.BodyRequired); err != nil {
			return nil, &ParseError{
				Msg: fmt.Sprintf("operation %s: requestBody.required is not a boolean", op.Key),
				Err: err,
			}
		}
	}

	content := mappingValue(body, "content")
	if content == nil {
		return op, nil
	}
	if content.Kind != yaml.MappingNode {
		return nil, parseErrorf("operation %s: requestBody.content is not a mapping", op.Key)
	}
	for i := 0; i < len(content.Content); i += 2 {
		mt, err := ParseMediaType(content.Content[i].Value)
		if err != nil {
			return nil, &ParseError{
				Msg: fmt.Sprintf("operation %s: bad content key", op.Key),
				Err: err,
			}
		}
		op.AcceptedMediaTypes = append(op.AcceptedMediaTypes, mt)
	}
	return op, nil
}

// resolveRequestBody follows a requestBody $ref into
// components.requestBodies. A ref pointing nowhere fails the load.
func resolveRequestBody(key OperationKey, body *yaml.Node, bodies map[string]*yaml.Node) (*yaml.Node, error) {
	if body.Kind != yaml.MappingNode {
		return nil, parseErrorf("operation %s: requestBody is not a mapping", key)
	}
	ref := mappingValue(body, "$ref")
	if ref == nil {
		return body, nil
	}
	const prefix = "#/components/requestBodies/"
	name, ok := strings.CutPrefix(ref.Value, prefix)
	if !ok {
		return nil, parseErrorf("operation %s: unsupported requestBody $ref %q", key, ref.Value)
	}
	target, ok := bodies[name]
	if !ok {
		return nil, parseErrorf("operation %s: requestBody $ref %q not found", key, ref.Value)
	}
	if target.Kind != yaml.MappingNode {
		return nil, parseErrorf("requestBodies.%s is not a mapping", name)
	}
	return target, nil
}

func componentRequestBodies(top *yaml.Node) (map[string]*yaml.Node, error) {
	components := mappingValue(top, "components")
	if components == nil {
		return nil, nil
	}
	if components.Kind != yaml.MappingNode {
		return nil, parseErrorf("components is not a mapping")
	}
	bodiesNode := mappingValue(components, "requestBodies")
	if bodiesNode == nil {
		return nil, nil
	}
	if bodiesNode.Kind != yaml.MappingNode {
		return nil, parseErrorf("components.requestBodies is not a mapping")
	}
	bodies := make(map[string]*yaml.Node)
	for i := 0; i < len(bodiesNode.Content); i += 2 {
		bodies[bodiesNode.Content[i].Value] = deref(bodiesNode.Content[i+1])
	}
	return bodies, nil
}

// mappingValue returns the dereferenced value for key in a mapping node,
// or nil when absent.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return deref(node.Content[i+1])
		}
	}
	return nil
}

// deref follows YAML alias nodes.
func deref(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}
