// Package conceptcard explains concepts with a bilingual Why/How/What breakdown
// generated by AI providers.
//
// The package resolves which provider to call from the configured credentials,
// tries providers in a fixed priority order with fallback, normalizes whatever
// JSON shape the model returns into a strict Analysis, and classifies failures
// into user-facing categories.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/conceptcard"
//	    "github.com/ZaguanLabs/conceptcard/provider"
//	)
//
//	func main() {
//	    cfg := conceptcard.ProviderConfig{
//	        conceptcard.ProviderDeepSeek: {APIKey: os.Getenv("DEEPSEEK_API_KEY")},
//	    }
//
//	    orch := conceptcard.NewOrchestrator(
//	        conceptcard.NewResolver(cfg, conceptcard.DirectPriority()),
//	        provider.NewAdapters(cfg),
//	    )
//	    svc := conceptcard.NewService(orch)
//
//	    result, err := svc.AnalyzeConcept(context.Background(), "Blockchain")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.Analysis.Why.Content.EN)
//	}
package conceptcard
