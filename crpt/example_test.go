/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package crpt

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/acronis/go-crptkit/ratelimit"
)

// ExampleClient_CreateDocument demonstrates submitting documents through the rate-limited client.
func ExampleClient_CreateDocument() {
	// Note: error handling is intentionally omitted so as not to overcomplicate the example.
	// It is strictly necessary to handle all errors in real code.

	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	// Let's make a client that may submit maximum 3 documents per second.
	cfg := NewConfig()
	cfg.Address = server.URL // DefaultAddress points to the production CRPT environment.
	cfg.RequestTimeout = DefaultRequestTimeout
	cfg.RateLimit = ratelimit.Config{Window: time.Second, Limit: 3, WaitTimeout: time.Second * 5}
	client, _ := NewClient(cfg)

	doc := &Document{
		DocID:          "doc-1",
		DocStatus:      "DRAFT",
		DocType:        DocTypeLPIntroduceGoods,
		OwnerInn:       "1234567890",
		ParticipantInn: "1234567890",
		ProducerInn:    "1234567890",
		ProductionDate: "2020-01-23",
		ProductionType: "OWN_PRODUCTION",
		RegDate:        "2020-01-23",
	}

	start := time.Now()
	for i := 0; i < 5; i++ {
		_ = client.CreateDocument(context.Background(), doc, "signature")
	}
	// The first 3 submissions go out immediately, the remaining 2 wait for the next window.
	if time.Since(start) >= time.Second {
		fmt.Println("5 submissions took at least one window")
	}

	// Output: 5 submissions took at least one window
}
