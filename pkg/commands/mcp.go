package commands

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/runner/mcp"
	"tableflip.dev/taskflow/pkg/store"
)

func addMCP(topLevel *cobra.Command) {
	var (
		transport   string
		httpHost    string
		httpPort    int
		httpPath    string
		httpTLSCert string
		httpTLSKey  string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "start the Model Context Protocol server",
		Long: `Launch an MCP server that exposes the assistant, todos, reminders, notes,
analytics and chat history through the Model Context Protocol.`,
		Example: `
taskflow mcp
taskflow mcp --transport stdio
taskflow mcp --http-port 0
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if httpPort < 0 || httpPort > 65535 {
				return fmt.Errorf("invalid http-port %d", httpPort)
			}
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			runner := mcp.Runner{
				Service:          mcp.NewService(e.Store, e.Stores, e.Analytics, e.Assistant()),
				Name:             "taskflow",
				Version:          version,
				HTTPEndpointPath: mcp.EndpointPath(httpPath),
				HTTPServerCert:   strings.TrimSpace(httpTLSCert),
				HTTPServerKey:    strings.TrimSpace(httpTLSKey),
			}

			switch mcp.Transport(strings.ToLower(strings.TrimSpace(transport))) {
			case "", mcp.TransportHTTP:
				secure, err := runner.Secure()
				if err != nil {
					return err
				}
				host := strings.TrimSpace(httpHost)
				if host == "" {
					host = "127.0.0.1"
				}
				runner.Transport = mcp.TransportHTTP
				runner.HTTPListenAddr = net.JoinHostPort(host, strconv.Itoa(httpPort))
				runner.OnHTTPListening = func(a net.Addr) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "MCP HTTP server listening on %s\n",
						mcp.ListenURL(host, a, runner.HTTPEndpointPath, secure))
				}
			case mcp.TransportStdio:
				runner.Transport = mcp.TransportStdio
			default:
				return fmt.Errorf("unsupported transport %q (expected http or stdio)", transport)
			}

			if w, ok := e.KV.(store.Watcher); ok {
				if err := w.Watch(cmdContext(cmd), e.Bus, e.Log); err != nil {
					e.Log.Warn().Err(err).Msg("store watch disabled")
				}
			}
			return runner.Do(cmdContext(cmd))
		},
	}

	cmd.Flags().StringVar(&transport, "transport", string(mcp.TransportHTTP), "transport to use: http or stdio")
	cmd.Flags().StringVar(&httpHost, "http-host", "127.0.0.1", "host/interface for HTTP transport")
	cmd.Flags().IntVar(&httpPort, "http-port", 8080, "port for HTTP transport (use 0 for random)")
	cmd.Flags().StringVar(&httpPath, "http-path", mcp.DefaultEndpointPath, "HTTP endpoint path")
	cmd.Flags().StringVar(&httpTLSCert, "http-tls-cert", "", "TLS certificate file for HTTPS")
	cmd.Flags().StringVar(&httpTLSKey, "http-tls-key", "", "TLS private key file for HTTPS")

	topLevel.AddCommand(cmd)
}
