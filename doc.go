// Package ongsearch embeds the NGO product catalog and its natural-language
// search in a Go program.
//
// By default the client serves the built-in demo catalog:
//
//	client, _ := ongsearch.New(ctx)
//	defer client.Close()
//	res, _ := client.Search(ctx, "higiene até 50 reais")
//	for _, p := range res.Products {
//	    fmt.Println(p.Name, p.Price)
//	}
//
// Other sources are selected with options:
//
//	client, _ := ongsearch.New(ctx,
//	    ongsearch.WithRedis("localhost:6379", ""),
//	    ongsearch.WithPageSize(24),
//	)
//
// Queries containing the fallback marker ("fallback" by default) skip
// interpretation and run a plain text search.
package ongsearch
