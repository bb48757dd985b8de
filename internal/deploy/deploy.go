package deploy

import (
	"context"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/rippled-monitor/monitor-ctl/internal/config"
	"github.com/rippled-monitor/monitor-ctl/internal/errors"
	"github.com/rippled-monitor/monitor-ctl/internal/logging"
	"github.com/rippled-monitor/monitor-ctl/internal/runtime"
	"github.com/rippled-monitor/monitor-ctl/internal/system"
)

// Mode is how the target service runs.
type Mode string

const (
	ModeNative        Mode = "native"
	ModeContainerized Mode = "containerized"
)

// Descriptor is the outcome of one deployment detection.
type Descriptor struct {
	Mode             Mode   `json:"mode"`
	ContainerID      string `json:"containerId,omitempty"`
	ContainerName    string `json:"containerName,omitempty"`
	DataPath         string `json:"dataPath"`
	DataPathVerified bool   `json:"dataPathVerified"`

	// HostPorts are the container's published TCP ports. Empty in native mode.
	HostPorts []int `json:"hostPorts,omitempty"`
}

// Containerized reports whether the target runs in a container.
func (d *Descriptor) Containerized() bool {
	return d != nil && d.Mode == ModeContainerized
}

// Detector finds the target service on the host.
type Detector struct {
	target  config.Target
	runtime runtime.Runtime
	procs   ProcessLister
	fs      system.FileSystem
}

// NewDetector creates a detector. A nil runtime means the host has no
// container capability.
func NewDetector(target config.Target, rt runtime.Runtime, procs ProcessLister, fs system.FileSystem) *Detector {
	if procs == nil {
		procs = HostProcesses{}
	}
	if fs == nil {
		fs = system.DefaultFS()
	}
	return &Detector{target: target, runtime: rt, procs: procs, fs: fs}
}

// Detect determines the deployment mode and data path of the target.
func (d *Detector) Detect(ctx context.Context) (*Descriptor, errors.Warnings, error) {
	var warnings errors.Warnings

	if d.runtime != nil {
		c, err := runtime.FindByName(ctx, d.runtime, d.target.Name)
		if err != nil {
			warnings.Addf(errors.KindUnreachable, "container runtime %s: %v", d.runtime.Name(), err)
		} else if c != nil {
			logging.Debug("target found in container", "container", c.Name, "id", c.ID)
			desc := &Descriptor{
				Mode:          ModeContainerized,
				ContainerID:   c.ID,
				ContainerName: c.Name,
				HostPorts:     c.PublishedPorts(),
			}
			d.resolveContainerDataPath(desc, c.Mounts, &warnings)
			return desc, warnings, nil
		}
	}

	procs, err := d.procs.Processes(ctx)
	if err != nil {
		nf := errors.TargetNotFound(d.target.Name)
		nf.Cause = err
		return nil, warnings, nf
	}

	for _, p := range procs {
		if p.Name != d.target.Process {
			continue
		}
		logging.Debug("target found as native process", "pid", p.PID, "name", p.Name)
		desc := &Descriptor{
			Mode:     ModeNative,
			DataPath: d.target.DefaultDataPath,
		}
		if d.readable(desc.DataPath) {
			desc.DataPathVerified = true
		} else {
			warnings.Addf(errors.KindUnverified, "data path %s is not readable", desc.DataPath)
		}
		return desc, warnings, nil
	}

	return nil, warnings, errors.TargetNotFound(d.target.Name)
}

func (d *Detector) resolveContainerDataPath(desc *Descriptor, mounts []runtime.Mount, warnings *errors.Warnings) {
	hostPath, ok := DataPathFromMounts(mounts, d.target.DataDir)
	if ok && d.readable(hostPath) {
		desc.DataPath = hostPath
		desc.DataPathVerified = true
		return
	}

	if ok {
		warnings.Addf(errors.KindUnverified, "data path %s is not readable, using %s", hostPath, d.target.DefaultDataPath)
	} else {
		warnings.Addf(errors.KindUnverified, "no mount covers %s in container %s, using %s",
			d.target.DataDir, desc.ContainerName, d.target.DefaultDataPath)
	}
	desc.DataPath = d.target.DefaultDataPath
	desc.DataPathVerified = false
}

func (d *Detector) readable(path string) bool {
	_, err := d.fs.ReadDir(path)
	return err == nil
}

// DataPathFromMounts maps dataDir inside the container to a host path. The
// mount whose destination is dataDir, or the deepest ancestor of it, wins.
// The remainder below the mount point is joined with SecureJoin so it cannot
// escape the mount source.
func DataPathFromMounts(mounts []runtime.Mount, dataDir string) (string, bool) {
	dataDir = filepath.Clean(dataDir)

	var best *runtime.Mount
	for i := range mounts {
		m := &mounts[i]
		if m.Source == "" {
			continue
		}
		dest := filepath.Clean(m.Destination)
		if dest != dataDir && !strings.HasPrefix(dataDir, strings.TrimSuffix(dest, "/")+"/") {
			continue
		}
		if best == nil || len(dest) > len(filepath.Clean(best.Destination)) {
			best = m
		}
	}
	if best == nil {
		return "", false
	}

	rel, err := filepath.Rel(filepath.Clean(best.Destination), dataDir)
	if err != nil {
		return "", false
	}
	if rel == "." {
		return filepath.Clean(best.Source), true
	}

	joined, err := securejoin.SecureJoin(best.Source, rel)
	if err != nil {
		logging.Debug("secure join failed", "source", best.Source, "rel", rel, "error", err)
		return "", false
	}
	return joined, true
}
