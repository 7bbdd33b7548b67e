// Package sparql provides a Go client for SPARQL 1.1 query endpoints.
//
// The client speaks the SPARQL 1.1 Protocol over HTTP and decodes the
// SPARQL 1.1 JSON results format. It does not build queries beyond
// literal escaping; see package wikidata for query templates.
//
// # Basic Usage
//
//	client := sparql.NewClient()
//
//	resp, err := client.Query(ctx, `SELECT ?item WHERE { ?item wdt:P31 wd:Q146 } LIMIT 3`)
//	if err != nil {
//	    return err
//	}
//	for _, b := range resp.Results.Bindings {
//	    vals, err := b.Values("item")
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(vals[0])
//	}
//
// # Escaping
//
// Untrusted text must go through Escape before it is placed inside a
// string literal:
//
//	q := fmt.Sprintf(`VALUES ?name { """%s"""@en }`, sparql.Escape(name))
//
// # Error Handling
//
//	resp, err := client.Query(ctx, q)
//	if err != nil {
//	    if e, ok := sparql.AsError(err); ok && e.IsRateLimit() {
//	        // back off
//	    }
//	    return err
//	}
//
// # Configuration
//
//	client := sparql.NewClient(
//	    sparql.WithEndpoint("https://query.wikidata.org/sparql"),
//	    sparql.WithTimeout(30*time.Second),
//	    sparql.WithUserAgent("my-bot/1.0 (me@example.org)"),
//	)
//
// The client never retries. Each Query call issues exactly one request.
package sparql
