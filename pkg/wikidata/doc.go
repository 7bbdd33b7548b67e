// Package wikidata looks up people on a Wikidata-compatible SPARQL endpoint.
//
// Two operations are offered:
//
//	client := wikidata.NewClient()
//
//	// Find humans whose English label is exactly the given name.
//	people, err := client.SearchPeople(ctx, "Douglas Adams")
//
//	// List the direct claims of an entity with resolved labels.
//	fields, err := client.FetchEntityFields(ctx, "Q42", nil)
//
// Query text is produced by SearchPeopleQuery and EntityFieldsQuery, which
// can be used and tested without a network. Names are escaped with
// sparql.Escape before they reach the query.
//
// Each call issues one request. Any failure, whether transport, a row
// missing a variable or a malformed URL, aborts the call and no partial
// result is returned.
package wikidata
