package pinger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

var _ = Describe("Pinger", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("Ping", func() {
		It("probes every URL once and keeps input order", func() {
			var hits atomic.Int64
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				w.WriteHeader(http.StatusOK)
			}))
			defer srv.Close()

			p := New(&Config{Logger: zap.NewNop()})
			urls := []string{srv.URL + "/a", srv.URL + "/b", srv.URL + "/c"}
			results := p.Ping(ctx, urls)

			Expect(results).To(HaveLen(3))
			Expect(hits.Load()).To(Equal(int64(3)))
			for i, r := range results {
				Expect(r.URL).To(Equal(urls[i]))
				Expect(r.OK()).To(BeTrue())
				Expect(r.Status).To(Equal(http.StatusOK))
			}
			Expect(SuccessCount(results)).To(Equal(3))
		})

		It("records non-2xx answers as failures", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			}))
			defer srv.Close()

			p := New(&Config{Logger: zap.NewNop()})
			results := p.Ping(ctx, []string{srv.URL})

			Expect(results[0].OK()).To(BeFalse())
			Expect(results[0].Status).To(Equal(http.StatusServiceUnavailable))
			Expect(results[0].Err).To(HaveOccurred())
			Expect(SuccessCount(results)).To(Equal(0))
		})

		It("records unreachable URLs as failures without aborting the run", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			defer srv.Close()

			p := New(&Config{Timeout: time.Second, Logger: zap.NewNop()})
			results := p.Ping(ctx, []string{"http://127.0.0.1:1", srv.URL})

			Expect(results[0].Err).To(HaveOccurred())
			Expect(results[1].OK()).To(BeTrue())
			Expect(SuccessCount(results)).To(Equal(1))
		})

		It("marks remaining URLs with the context error on cancellation", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			p := New(&Config{NumWorkers: 1, Logger: zap.NewNop()})
			results := p.Ping(cancelled, []string{"http://127.0.0.1:1", "http://127.0.0.1:2"})

			for _, r := range results {
				Expect(r.Err).To(HaveOccurred())
			}
		})

		It("returns an empty result set for an empty URL list", func() {
			p := New(&Config{Logger: zap.NewNop()})
			Expect(p.Ping(ctx, nil)).To(BeEmpty())
		})
	})
})
