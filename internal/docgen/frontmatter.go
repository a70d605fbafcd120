package docgen

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"
)

const (
	fieldTitle      = "title"
	fieldPackage    = "package"
	fieldImportPath = "import_path"
	fieldUID        = "uid"
	fieldLastmod    = "lastmod"
)

var errUnterminatedFrontMatter = errors.New("front matter opening delimiter without closing delimiter")

// splitFrontMatter separates "---" delimited YAML from the Markdown body.
// Documents without front matter return nil fields and the full content.
func splitFrontMatter(content []byte) (map[string]any, []byte, error) {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(content, []byte("---\n")) {
		return nil, content, nil
	}
	rest := content[len("---\n"):]
	if after, ok := bytes.CutPrefix(rest, []byte("---\n")); ok {
		return map[string]any{}, after, nil
	}
	idx := bytes.Index(rest, []byte("\n---\n"))
	if idx < 0 {
		return nil, nil, errUnterminatedFrontMatter
	}

	fields := map[string]any{}
	if err := yaml.Unmarshal(rest[:idx+1], &fields); err != nil {
		return nil, nil, fmt.Errorf("parse front matter: %w", err)
	}
	return fields, rest[idx+len("\n---\n"):], nil
}

// joinFrontMatter serializes fields with sorted keys and prepends them to body.
func joinFrontMatter(fields map[string]any, body []byte) ([]byte, error) {
	fm, err := marshalSorted(fields)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

func marshalSorted(fields map[string]any) ([]byte, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		var val yaml.Node
		if err := val.Encode(fields[k]); err != nil {
			return nil, fmt.Errorf("encode front matter field %q: %w", k, err)
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, &val)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fingerprint hashes the page content. Bookkeeping fields (uid, lastmod and
// the fingerprint itself) do not contribute.
func fingerprint(fields map[string]any, body []byte) (string, error) {
	hashed := make(map[string]any, len(fields))
	for k, v := range fields {
		switch k {
		case mdfp.FingerprintField, fieldUID, fieldLastmod:
			continue
		}
		hashed[k] = v
	}
	fm, err := marshalSorted(hashed)
	if err != nil {
		return "", err
	}
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(fm), "\n"), string(body)), nil
}

// stampFrontMatter completes fields for a page about to be written. The uid
// and lastmod of the previous version are carried over, and lastmod only
// moves when the fingerprint changes, so regenerating unchanged sources
// yields identical files.
func stampFrontMatter(fields, previous map[string]any, body []byte, now time.Time) error {
	fp, err := fingerprint(fields, body)
	if err != nil {
		return err
	}

	uid, _ := previous[fieldUID].(string)
	if strings.TrimSpace(uid) == "" {
		uid = uuid.NewString()
	}
	fields[fieldUID] = uid
	fields[mdfp.FingerprintField] = fp

	oldFP, _ := previous[mdfp.FingerprintField].(string)
	lastmod, _ := previous[fieldLastmod].(string)
	if oldFP != fp || lastmod == "" {
		lastmod = now.UTC().Format("2006-01-02")
	}
	fields[fieldLastmod] = lastmod
	return nil
}
