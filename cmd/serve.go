package cmd

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-i2p/onramp"
	"github.com/spf13/cobra"

	"github.com/go-i2p/weblog/logger"
	siteserver "github.com/go-i2p/weblog/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve feeds, the posts API and the build directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, locales, err := repository(c)
		if err != nil {
			return err
		}
		s := siteserver.Serve(c.BuildDir, c.StatsFile, c.Site(), repo, locales)

		// Probe for a SAM gateway only when actually serving.
		if !c.I2P {
			c.I2P = isSamAround()
		}
		if noListenerConfigured(c.Host, c.I2P) {
			return fmt.Errorf("serve: no listener configured: --host is empty and --i2p is false")
		}

		errCh := make(chan error, 2)
		if c.Host != "" {
			go func() { errCh <- serveHTTP(s, c.Host, c.Port) }()
		}
		if c.I2P {
			go func() { errCh <- serveI2P(s, c.SamAddr) }()
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case sig := <-sigCh:
			logger.Log.Infof("captured %s, shutting down", sig)
			err = nil
		case err = <-errCh:
			logger.ErrorWithFields(logger.Log, "listener stopped", logger.Fields{"error": fmt.Sprint(err)})
		}
		if serr := s.Stats.Save(); serr != nil {
			logger.Log.Errorf("Stats.Save: %v", serr)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("statsfile", "build/stats.json", "file to store feed request stats in")
	serveCmd.Flags().String("host", "127.0.0.1", "host to serve on")
	serveCmd.Flags().String("port", "3000", "port to serve on")
	serveCmd.Flags().Bool("i2p", false, "also serve directly to I2P using SAMv3")
	serveCmd.Flags().String("samaddr", onramp.SAM_ADDR, "advanced: SAMv3 gateway address when --i2p is enabled")
}

// isSamAround reports whether something already listens on the default SAM
// port.
func isSamAround() bool {
	ln, err := net.Listen("tcp", "127.0.0.1:7656")
	if err != nil {
		return true
	}
	ln.Close()
	return false
}

// noListenerConfigured reports whether serve would start with no listeners.
func noListenerConfigured(host string, i2p bool) bool {
	return host == "" && !i2p
}

func serveHTTP(h http.Handler, host, port string) error {
	ln, err := net.Listen("tcp", net.JoinHostPort(host, port))
	if err != nil {
		return fmt.Errorf("serveHTTP: %w", err)
	}
	logger.InfoWithFields(logger.Log, "serving", logger.Fields{"addr": ln.Addr().String()})
	return http.Serve(ln, h)
}

// serveI2P serves h on a garlic listener. An empty samAddr uses the onramp
// default gateway.
func serveI2P(h http.Handler, samAddr string) error {
	var (
		garlic *onramp.Garlic
		err    error
	)
	if samAddr != "" {
		garlic, err = onramp.NewGarlic("weblog", samAddr, onramp.OPT_DEFAULTS)
		if err != nil {
			return fmt.Errorf("serveI2P: %w", err)
		}
	} else {
		garlic = &onramp.Garlic{}
	}
	defer garlic.Close()
	ln, err := garlic.Listen()
	if err != nil {
		return fmt.Errorf("serveI2P: %w", err)
	}
	defer ln.Close()
	logger.InfoWithFields(logger.Log, "serving", logger.Fields{"addr": ln.Addr().String()})
	return http.Serve(ln, h)
}
