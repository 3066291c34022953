package openai_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/janadata/relay/pkg/upstream/openai"
)

var _ = Describe("OpenAI Upstream", func() {
	var u *openai.Upstream

	BeforeEach(func() {
		u = openai.New(openai.Target{
			URL:          "https://api.groq.com/openai/v1/chat/completions",
			Model:        "llama-3.1-8b-instant",
			SystemPrompt: "You are a data analyst.",
			Temperature:  0.7,
			MaxTokens:    512,
		})
	})

	Describe("Name", func() {
		It("returns 'chat'", func() {
			Expect(u.Name()).To(Equal("chat"))
		})
	})

	Describe("Passthrough", func() {
		It("is false, replies are reshaped", func() {
			Expect(u.Passthrough()).To(BeFalse())
		})
	})

	Describe("BuildRequest", func() {
		var (
			req     *http.Request
			payload map[string]any
		)

		BeforeEach(func() {
			var err error
			req, err = u.BuildRequest(context.Background(), "How many enrolments in 2024?")
			Expect(err).NotTo(HaveOccurred())

			body, err := io.ReadAll(req.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(json.Unmarshal(body, &payload)).To(Succeed())
		})

		It("POSTs to the target URL", func() {
			Expect(req.Method).To(Equal(http.MethodPost))
			Expect(req.URL.String()).To(Equal("https://api.groq.com/openai/v1/chat/completions"))
		})

		It("sends JSON content type", func() {
			Expect(req.Header.Get("Content-Type")).To(Equal("application/json"))
		})

		It("carries the payload template", func() {
			Expect(payload["model"]).To(Equal("llama-3.1-8b-instant"))
			Expect(payload["temperature"]).To(BeNumerically("==", 0.7))
			Expect(payload["max_tokens"]).To(BeNumerically("==", 512))
		})

		It("puts the system prompt before the user text", func() {
			messages := payload["messages"].([]any)
			Expect(messages).To(HaveLen(2))

			first := messages[0].(map[string]any)
			Expect(first["role"]).To(Equal("system"))
			Expect(first["content"]).To(Equal("You are a data analyst."))

			second := messages[1].(map[string]any)
			Expect(second["role"]).To(Equal("user"))
			Expect(second["content"]).To(Equal("How many enrolments in 2024?"))
		})

		It("attaches no credentials", func() {
			Expect(req.Header.Get("Authorization")).To(BeEmpty())
		})

		Context("without a system prompt", func() {
			It("sends only the user message", func() {
				bare := openai.New(openai.Target{URL: "http://example.test", Model: "m"})
				req, err := bare.BuildRequest(context.Background(), "hi")
				Expect(err).NotTo(HaveOccurred())

				body, _ := io.ReadAll(req.Body)
				var p map[string]any
				Expect(json.Unmarshal(body, &p)).To(Succeed())
				Expect(p["messages"].([]any)).To(HaveLen(1))
			})
		})
	})

	Describe("Reply", func() {
		It("extracts choices[0].message.content", func() {
			body := []byte(`{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`)
			reply, ok := u.Reply(body)
			Expect(ok).To(BeTrue())
			Expect(reply).To(Equal("hello"))
		})

		It("reports a shape mismatch when choices are missing", func() {
			_, ok := u.Reply([]byte(`{"id":"chatcmpl-123"}`))
			Expect(ok).To(BeFalse())
		})

		It("reports a shape mismatch on non-JSON bodies", func() {
			_, ok := u.Reply([]byte(`upstream exploded`))
			Expect(ok).To(BeFalse())
		})
	})

	Describe("ErrorMessage", func() {
		It("extracts the nested error message", func() {
			body := []byte(`{"error":{"message":"rate limited","type":"rate_limit_error"}}`)
			Expect(u.ErrorMessage(body)).To(Equal("rate limited"))
		})

		It("extracts a flat error string", func() {
			Expect(u.ErrorMessage([]byte(`{"error":"model not found"}`))).To(Equal("model not found"))
		})

		It("returns empty for unknown shapes", func() {
			Expect(u.ErrorMessage([]byte(`<html>502</html>`))).To(BeEmpty())
			Expect(u.ErrorMessage([]byte(`{"detail":"nope"}`))).To(BeEmpty())
		})
	})
})
