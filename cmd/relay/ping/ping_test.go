package pingcmder_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	relaycmder "github.com/janadata/relay/cmd/relay"
	pingcmder "github.com/janadata/relay/cmd/relay/ping"
)

var _ = Describe("NewPingCmd", func() {
	It("creates a command with the correct name", func() {
		cmd := pingcmder.NewPingCmd()
		Expect(cmd.Name()).To(Equal("ping"))
	})

	It("requires at least one URL argument", func() {
		cmd := pingcmder.NewPingCmd()
		Expect(cmd.Args(cmd, nil)).To(HaveOccurred())
		Expect(cmd.Args(cmd, []string{"http://example.com"})).To(Succeed())
	})
})

var _ = Describe("Ping command execution", func() {
	// runPing executes "relay ping" through the root command so the
	// persistent debug flag is wired the same way as in production.
	runPing := func(args ...string) (string, error) {
		cmd := relaycmder.NewRelayCmd()
		out := &bytes.Buffer{}
		cmd.SetOut(out)
		cmd.SetErr(out)
		cmd.SetArgs(append([]string{"ping"}, args...))
		err := cmd.Execute()
		return out.String(), err
	}

	It("reports reachable URLs and exits cleanly", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		out, err := runPing(srv.URL)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("1/1 reachable"))
	})

	It("fails when a probe fails", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		out, err := runPing(srv.URL)
		Expect(err).To(HaveOccurred())
		Expect(out).To(ContainSubstring("0/1 reachable"))
	})
})
