package jnsuite_test

import (
	"context"
	"fmt"
	"log"

	"github.com/javanetict/jnsuite"
	"github.com/javanetict/jnsuite/pkg/adapters/memory"
	"github.com/javanetict/jnsuite/pkg/domain"
)

// ExampleNew walks a visitor from a greeting to a demo request.
func ExampleNew() {
	engine, err := jnsuite.New()
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	turn, err := engine.Turn(ctx, "visitor-1", "hello")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(turn.Intent)

	turn, err = engine.Turn(ctx, "visitor-1", "demo")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(turn.Intent, *turn.Delta.DemoShown)
	// Output:
	// greeting
	// demo true
}

// ExampleWithCatalog serves a catalog built in code.
func ExampleWithCatalog() {
	loader, err := memory.NewFromNodes(
		domain.Node{
			Tag:       domain.TagGreeting,
			Patterns:  []string{"hello"},
			Responses: []string{"Welcome to JavaNet!"},
		},
		domain.Node{
			Tag:       domain.TagPricing,
			Patterns:  []string{"price", "cost"},
			Responses: []string{"Deployment is a one-time fee."},
		},
	)
	if err != nil {
		log.Fatal(err)
	}

	engine, err := jnsuite.New(jnsuite.WithCatalog(loader))
	if err != nil {
		log.Fatal(err)
	}

	turn, err := engine.Turn(context.Background(), "s1", "what is the price?")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(turn.Intent)
	// Output:
	// pricing
}
