/*
Copyright 2025 The llm-d Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package logging configures the process-wide logr logger backed by zap.
package logging

import (
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/onsi/ginkgo/v2"
	"go.uber.org/zap/zapcore"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// Verbosity levels used with logger.V(...)
const (
	DEBUG = 1
	TRACE = 2
)

// Options controls how the process logger is built.
type Options struct {
	// Development enables console encoding, stack traces on warnings and no sampling.
	Development bool
	// Verbosity is the highest logr V-level that is emitted.
	Verbosity int
	// Output defaults to os.Stderr.
	Output io.Writer
}

// NewLogger builds a logger from opts and installs it as the controller-runtime logger.
func NewLogger(opts Options) logr.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	logger := zap.New(
		zap.UseDevMode(opts.Development),
		zap.WriteTo(out),
		zap.Level(zapcore.Level(-opts.Verbosity)),
	)
	ctrl.SetLogger(logger)
	return logger
}

// NewTestLogger installs a debug-level logger that writes to the ginkgo writer.
func NewTestLogger() logr.Logger {
	return NewLogger(Options{
		Development: true,
		Verbosity:   TRACE,
		Output:      ginkgo.GinkgoWriter,
	})
}
