package e2e

import (
	"fmt"
	"testing"
	"time"

	"chat-relay/client"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
)

// drainTimeout bounds each read while flushing replayed history.
const drainTimeout = 500 * time.Millisecond

// BaseRelaySuite dials a relay deployed outside the test process; its
// address comes from the environment. Suites embedding it are skipped when
// no relay is configured, so they never break a plain `go test ./...`.
type BaseRelaySuite struct {
	suite.Suite
	Config Config
}

func (s *BaseRelaySuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.RelayAddr == "" {
		s.T().Skip("RELAY_ADDR not set, skipping end-to-end suite")
	}
}

// Connect opens a fresh client connection with a colorized step header.
func (s *BaseRelaySuite) Connect(t *testing.T, name string) *client.Client {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)

	c, err := client.Dial(s.Config.RelayAddr)
	s.Require().NoError(err, "Failed to connect to relay at "+s.Config.RelayAddr)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// DrainHistory reads replayed notifications until the line timeout, so a
// scenario can start from a known quiet point regardless of prior runs.
func (s *BaseRelaySuite) DrainHistory(c *client.Client) int {
	count := 0
	for {
		if _, err := c.ReadNotification(drainTimeout); err != nil {
			return count
		}
		count++
	}
}
