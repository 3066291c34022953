package header

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestHeader(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Header Suite")
}

var _ = Describe("SetCORSHeaders", func() {
	var (
		app *fiber.App
		hh  *Handler
	)

	BeforeEach(func() {
		app = fiber.New()
		hh = NewHandler()
	})

	AfterEach(func() {
		app.Shutdown()
	})

	It("sets the three permissive cross-origin headers", func() {
		app.Get("/test", func(c *fiber.Ctx) error {
			hh.SetCORSHeaders(c)
			return c.SendStatus(fiber.StatusOK)
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))
		Expect(resp.Header.Get("Access-Control-Allow-Methods")).To(Equal("GET, OPTIONS, POST"))
		Expect(resp.Header.Get("Access-Control-Allow-Headers")).To(Equal("Content-Type, Authorization"))
	})
})

var _ = Describe("SetUpstreamAuth", func() {
	var hh *Handler

	BeforeEach(func() {
		hh = NewHandler()
	})

	newRequest := func() *http.Request {
		req, err := http.NewRequest(http.MethodGet, "https://upstream.test/resource?format=json", nil)
		Expect(err).NotTo(HaveOccurred())
		return req
	}

	It("attaches a bearer token", func() {
		req := newRequest()
		Expect(hh.SetUpstreamAuth(req, "bearer", "", "tok123")).To(Succeed())
		Expect(req.Header.Get("Authorization")).To(Equal("Bearer tok123"))
	})

	It("attaches a custom header", func() {
		req := newRequest()
		Expect(hh.SetUpstreamAuth(req, "header", "x-api-key", "tok123")).To(Succeed())
		Expect(req.Header.Get("x-api-key")).To(Equal("tok123"))
		Expect(req.Header.Get("Authorization")).To(BeEmpty())
	})

	It("attaches a query parameter without clobbering existing ones", func() {
		req := newRequest()
		Expect(hh.SetUpstreamAuth(req, "query", "api-key", "tok123")).To(Succeed())
		Expect(req.URL.Query().Get("api-key")).To(Equal("tok123"))
		Expect(req.URL.Query().Get("format")).To(Equal("json"))
	})

	It("rejects unknown schemes", func() {
		req := newRequest()
		Expect(hh.SetUpstreamAuth(req, "cookie", "", "tok123")).NotTo(Succeed())
	})
})
