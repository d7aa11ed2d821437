package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	grpcAdapter "github.com/quentinrf/robot-controller/services/sensor-service/internal/adapters/grpc"
	"github.com/quentinrf/robot-controller/services/sensor-service/internal/adapters/lms"
	"github.com/quentinrf/robot-controller/services/sensor-service/internal/adapters/memory"
	"github.com/quentinrf/robot-controller/services/sensor-service/internal/adapters/mock"
	"github.com/quentinrf/robot-controller/services/sensor-service/internal/adapters/sqlite"
	"github.com/quentinrf/robot-controller/services/sensor-service/internal/domain"
	"github.com/quentinrf/robot-controller/services/sensor-service/internal/ports"
	"github.com/quentinrf/robot-controller/services/sensor-service/internal/sensors"
	"github.com/quentinrf/robot-controller/services/sensor-service/pkg/pb"
	"github.com/quentinrf/robot-controller/services/sensor-service/pkg/tlsconfig"
)

// firmwareInterval is how often the simulated firmware refreshes the mock region
const firmwareInterval = 50 * time.Millisecond

func main() {
	// Initialize logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Read configuration from environment
	config, err := loadConfig(os.Getenv)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	zerolog.SetGlobalLevel(config.LogLevel)

	log.Info().Msg("starting sensor service")

	if err := run(config); err != nil {
		log.Fatal().Err(err).Msg("sensor service failed")
	}
	log.Info().Msg("server stopped")
}

func run(config Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	// Initialize repository
	var repo domain.ReadingRepository
	switch config.RepoType {
	case "sqlite":
		r, err := sqlite.NewReadingRepository(config.DBPath)
		if err != nil {
			return fmt.Errorf("open SQLite database %s: %w", config.DBPath, err)
		}
		defer r.Close()
		repo = r
		log.Info().Str("db_path", config.DBPath).Msg("initialized SQLite repository")
	default:
		repo = memory.NewReadingRepository()
		log.Info().Msg("initialized in-memory repository")
	}

	// Initialize hardware region
	var provider ports.RegionProvider
	switch config.RegionType {
	case "lms":
		provider = lms.Provider(lms.DefaultDevices())
		log.Info().Msg("using lms input devices")
	default:
		region := mock.NewRegion(mock.WithSettle())
		provider = region.Provider()
		g.Go(func() error { return region.Run(ctx, firmwareInterval) })
		log.Info().Msg("using simulated sensor region")
	}

	subsystem := sensors.New(provider)
	if err := subsystem.Init(); err != nil {
		return err
	}
	defer func() {
		if err := subsystem.Shutdown(); err != nil {
			log.Error().Err(err).Msg("failed to shut down sensors")
		}
	}()

	if err := configurePorts(subsystem, config); err != nil {
		return err
	}

	// Initialize gRPC handler
	handler := grpcAdapter.NewSensorServiceHandler(repo, subsystem)

	// Configure TLS if certificates are provided
	var serverOpts []grpc.ServerOption
	if config.TLSCert != "" {
		tlsCfg, err := tlsconfig.LoadServerTLS(config.TLSCert, config.TLSKey, config.TLSCA)
		if err != nil {
			return fmt.Errorf("load TLS config: %w", err)
		}
		serverOpts = append(serverOpts, grpc.Creds(credentials.NewTLS(tlsCfg)))
		log.Info().Msg("mTLS enabled")
	} else {
		log.Warn().Msg("TLS_CERT not set, starting without TLS (dev mode only)")
	}

	grpcServer := grpc.NewServer(serverOpts...)
	pb.RegisterSensorServiceServer(grpcServer, handler)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", config.Port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	log.Info().Str("port", config.Port).Msg("gRPC server listening")

	g.Go(func() error {
		return grpcServer.Serve(listener)
	})

	// Start background recorder
	recorder := ports.NewRecorder(subsystem, repo, config.RecordInterval, config.Retention)
	g.Go(func() error { return recorder.Start(ctx) })

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down server...")
		grpcServer.GracefulStop()
		return nil
	})

	err = g.Wait()
	stats := recorder.Stats()
	log.Info().
		Uint64("recorded", stats.Recorded).
		Uint64("failed", stats.Failed).
		Msg("recorder finished")
	return err
}

// configurePorts applies the startup modes and beacon channels
func configurePorts(s *sensors.Subsystem, config Config) error {
	if len(config.SensorModes) == domain.NumPorts {
		m := config.SensorModes
		if err := s.SetAllSensorModes(m[0], m[1], m[2], m[3]); err != nil {
			return fmt.Errorf("configure sensor modes: %w", err)
		}
		names := make([]string, len(m))
		for i, mode := range m {
			names[i] = mode.String()
		}
		log.Info().Strs("modes", names).Msg("configured sensor ports")
	}
	for i, ch := range config.BeaconChannels {
		if err := s.SetIRBeaconChannel(domain.Port(i), ch); err != nil {
			return fmt.Errorf("set beacon channel: %w", err)
		}
	}
	return nil
}
