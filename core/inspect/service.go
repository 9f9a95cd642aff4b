package inspect

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"mediascope/logger"
	"mediascope/model"

	"github.com/google/uuid"
)

// Service extracts technical metadata from media files using a bound engine.
type Service interface {
	// GetInfo runs one extraction. When the request carries no output file
	// the raw report is written to the service's output writer and the
	// response has no file reference; otherwise the report is written to
	// <stem><ext> and the response carries the resulting path.
	GetInfo(req *model.InfoRequest) (*model.InfoResponse, error)
}

// NewService builds a Service for the requested engine. The external tool is
// verified with a --version probe before the service is returned, so a
// missing binary fails here rather than on first use. Inline reports go to
// stdout and report files are written relative to the working directory.
func NewService(engine model.Engine, binaryPath string) (Service, error) {
	switch engine {
	case model.EngineMediaInfo:
		logger.Debug("creating mediainfo extraction service", logger.String("binary", binaryPath))
		mgr, err := NewCommandManager(binaryPath, []string{"--version"})
		if err != nil {
			return nil, fmt.Errorf("mediainfo engine unavailable: %w", err)
		}
		return NewServiceFromManager(mgr, os.Stdout, ""), nil
	default:
		return nil, fmt.Errorf("unsupported extraction engine: %q", engine)
	}
}

// NewServiceFromManager builds a Service around an already verified command
// manager. The HTTP layer uses this to bind a per-request output writer
// without re-probing the tool. reportDir, when non-empty, is prepended to
// every written report path.
func NewServiceFromManager(mgr *CommandManager, out io.Writer, reportDir string) Service {
	return &mediaInfoService{cmd: mgr, out: out, reportDir: reportDir}
}

// mediaInfoService implements Service on top of the mediainfo CLI.
type mediaInfoService struct {
	cmd       *CommandManager
	out       io.Writer
	reportDir string
}

func (s *mediaInfoService) GetInfo(req *model.InfoRequest) (*model.InfoResponse, error) {
	format := req.Format
	if format == "" {
		format = model.FormatJSON
	}
	full := true
	if req.Full != nil {
		full = *req.Full
	}

	args := make([]string, 0, 3)
	switch format {
	case model.FormatHTML:
		args = append(args, "--output=HTML")
	case model.FormatXML:
		args = append(args, "--output=XML")
	default:
		args = append(args, "--output=JSON")
	}
	if full {
		args = append(args, "--full")
	}
	args = append(args, req.Input)

	result, err := s.cmd.ExecuteWithArgs(args)
	if err != nil {
		logger.Error("could not execute extraction command", logger.ErrorField(err))
		return nil, &CommandError{Message: "could not execute command"}
	}

	if !result.Success() {
		// mediainfo writes its error text to stdout, not stderr. Surface it
		// on the output writer so the caller sees the tool's own message.
		if err := s.writeOutput(result.Stdout); err != nil {
			return nil, err
		}
		logger.Error("extraction command returned error status",
			logger.String("input", req.Input),
			logger.Int("exitCode", result.ExitCode))
		return nil, &CommandError{Message: "command execution returned error status"}
	}

	return s.writeResult(result, req.OutputFile, format)
}

// writeResult routes the captured report either to the output writer or to a
// report file named after the requested stem.
func (s *mediaInfoService) writeResult(result *ExecutionResult, outputFile *string, format model.InfoFormat) (*model.InfoResponse, error) {
	if outputFile == nil {
		if err := s.writeOutput(result.Stdout); err != nil {
			return nil, err
		}
		return &model.InfoResponse{}, nil
	}

	stem := *outputFile
	if stem == "" {
		stem = uuid.NewString()
	}
	path := stem + format.Extension()
	if s.reportDir != "" {
		path = filepath.Join(s.reportDir, path)
	}

	if err := os.WriteFile(path, result.Stdout, 0644); err != nil {
		logger.Error("could not write report file",
			logger.String("path", path),
			logger.ErrorField(err))
		return nil, &IOError{Message: "could not write report to " + path, Err: err}
	}

	logger.Debug("report written", logger.String("path", path))
	return &model.InfoResponse{Output: model.InfoOutput{File: &path}}, nil
}

func (s *mediaInfoService) writeOutput(output []byte) error {
	if _, err := s.out.Write(output); err != nil {
		return &IOError{Message: "could not write report output", Err: err}
	}
	return nil
}
