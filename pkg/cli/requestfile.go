package cli

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/getmockd/reqmatch/pkg/request"
)

// stringList decodes from a scalar or a sequence of scalars.
type stringList []string

func (l *stringList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*l = stringList{node.Value}
		return nil
	}
	var values []string
	if err := node.Decode(&values); err != nil {
		return err
	}
	*l = values
	return nil
}

// requestFile is the on-disk form of a request for the match command.
type requestFile struct {
	Method  string                `yaml:"method"`
	Path    string                `yaml:"path"`
	URL     string                `yaml:"url"`
	Headers map[string]stringList `yaml:"headers"`
	Cookies map[string]string     `yaml:"cookies"`
	Params  map[string]stringList `yaml:"params"`
	Body    string                `yaml:"body"`
}

func loadRequestFile(path string) (*requestFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading request file: %w", err)
	}
	var rf requestFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing request file %s: %w", path, err)
	}
	return &rf, nil
}

func multi(m map[string]stringList) map[string][]string {
	if m == nil {
		return nil
	}
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = []string(v)
	}
	return out
}

// toRequest fills the facets the file leaves out. The method defaults to
// GET. A URL supplies the path and query parameters when those are absent,
// and a path without a URL is placed on http://localhost.
func (rf *requestFile) toRequest() (*request.Request, error) {
	req := &request.Request{
		Method:  strings.ToUpper(rf.Method),
		Path:    rf.Path,
		URL:     rf.URL,
		Headers: multi(rf.Headers),
		Cookies: rf.Cookies,
		Params:  multi(rf.Params),
		Body:    []byte(rf.Body),
	}
	if req.Method == "" {
		req.Method = "GET"
	}

	if req.URL != "" {
		u, err := url.Parse(req.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid url %q: %w", req.URL, err)
		}
		if req.Path == "" {
			req.Path = u.Path
		}
		if req.Params == nil && u.RawQuery != "" {
			req.Params = map[string][]string(u.Query())
		}
	} else {
		if req.Path == "" {
			req.Path = "/"
		}
		u := url.URL{Scheme: "http", Host: "localhost", Path: req.Path}
		if len(req.Params) > 0 {
			u.RawQuery = url.Values(req.Params).Encode()
		}
		req.URL = u.String()
	}

	if req.Headers == nil {
		req.Headers = map[string][]string{}
	}
	if req.Cookies == nil {
		req.Cookies = map[string]string{}
	}
	if req.Params == nil {
		req.Params = map[string][]string{}
	}
	return req, nil
}
