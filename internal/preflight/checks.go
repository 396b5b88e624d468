package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"golang.org/x/sys/unix"
)

const dialTimeout = 3 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckEndpoint verifies that the host behind rawURL accepts TCP
// connections. The backends only accept POST, so no request is sent.
func CheckEndpoint(ctx context.Context, name, rawURL string) Result {
	address, err := endpointAddress(rawURL)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(dialCtx, "tcp", address)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s unreachable (%s)", address, summarizeDialError(err))}
	}
	_ = conn.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s reachable", address)}
}

// CheckKafka dials each broker and reports the cluster size seen by the
// first one that answers.
func CheckKafka(ctx context.Context, brokers []string) Result {
	const name = "Kafka"
	if len(brokers) == 0 {
		return Result{Name: name, Detail: "no brokers configured"}
	}
	var failures []string
	for _, broker := range brokers {
		dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
		conn, err := kafka.DialContext(dialCtx, "tcp", broker)
		cancel()
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %s", broker, summarizeDialError(err)))
			continue
		}
		cluster, err := conn.Brokers()
		_ = conn.Close()
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: metadata: %v", broker, err))
			continue
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s reachable (%d brokers)", broker, len(cluster))}
	}
	return Result{Name: name, Detail: strings.Join(failures, "; ")}
}

func endpointAddress(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", errors.New("missing url")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" {
		return "", fmt.Errorf("invalid url %q", trimmed)
	}
	port := parsed.Port()
	if port == "" {
		switch parsed.Scheme {
		case "https":
			port = "443"
		default:
			port = "80"
		}
	}
	return net.JoinHostPort(parsed.Hostname(), port), nil
}

func summarizeDialError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timed out"
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Err != nil {
		return opErr.Err.Error()
	}
	return err.Error()
}
