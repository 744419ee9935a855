package datasource

import (
	"fmt"
	"sort"
	"strings"
)

// Documentation renders a Datasource per §4.4: header (name, base URL,
// description, auth scheme), then one block per endpoint (method + path,
// description, parameters with type/required/description, example,
// rate-limit if any).
func Documentation(d Datasource) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", d.Name, d.BaseURL)
	fmt.Fprintf(&b, "%s\n", d.Description)
	fmt.Fprintf(&b, "auth: %s\n", d.AuthScheme)

	for _, ep := range d.Endpoints {
		fmt.Fprintf(&b, "\n%s %s\n", strings.ToUpper(ep.Method), ep.Path)
		if ep.Description != "" {
			fmt.Fprintf(&b, "  %s\n", ep.Description)
		}
		for _, p := range ep.Params {
			req := "optional"
			if p.Required {
				req = "required"
			}
			fmt.Fprintf(&b, "  - %s (%s, %s): %s\n", p.Name, p.Type, req, p.Description)
		}
		if ep.Example != "" {
			fmt.Fprintf(&b, "  example: %s\n", ep.Example)
		}
		if ep.RateLimit != "" {
			fmt.Fprintf(&b, "  rate limit: %s\n", ep.RateLimit)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// SuggestAPICall implements §4.4's suggest_api_call: given a query that
// matched a Datasource, returns a Go code fragment constructing an
// apiclient handle for the source and calling its first endpoint with
// any captured parameters, as a prompt seed for the LLM (SPEC_FULL.md
// §4.4 — the module's own apiclient idiom resolves the Open Question on
// textual form).
func SuggestAPICall(d Datasource, params map[string]string) (string, bool) {
	if len(d.Endpoints) == 0 {
		return "", false
	}
	ep := d.Endpoints[0]

	var b strings.Builder
	fmt.Fprintf(&b, "handle, err := apiclient.New(%q)\n", d.ID)
	b.WriteString("if err != nil {\n\treturn err\n}\n")

	method := strings.ToLower(ep.Method)
	if method == "" {
		method = "get"
	}

	switch method {
	case "get", "delete":
		fmt.Fprintf(&b, "resp, err := handle.%s(ctx, %q, map[string]string{\n", methodFuncName(method), ep.Path)
	default:
		fmt.Fprintf(&b, "resp, err := handle.%s(ctx, %q, map[string]any{\n", methodFuncName(method), ep.Path)
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "\t%q: %q,\n", k, params[k])
	}
	b.WriteString("})\n")
	b.WriteString("if err != nil {\n\treturn err\n}\n")
	b.WriteString("// use resp.Body\n")

	return b.String(), true
}

func methodFuncName(method string) string {
	switch method {
	case "get":
		return "Get"
	case "post":
		return "Post"
	case "put":
		return "Put"
	case "delete":
		return "Delete"
	case "patch":
		return "Patch"
	default:
		return "Get"
	}
}
