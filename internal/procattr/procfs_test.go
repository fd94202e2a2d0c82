package procattr

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProc(t *testing.T, root, pid, status string) {
	t.Helper()
	dir := filepath.Join(root, pid)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	if status != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "status"), []byte(status), 0o644))
	}
}

func TestProcFS_Owner(t *testing.T) {
	root := t.TempDir()
	writeProc(t, root, "1234", "")

	uid, err := ProcFS{Root: root}.Owner(1234)
	require.NoError(t, err)
	assert.Equal(t, UID(os.Getuid()), uid)
}

func TestProcFS_Parent(t *testing.T) {
	root := t.TempDir()
	writeProc(t, root, "1234", "Name:\tbash\nUmask:\t0022\nState:\tS (sleeping)\nTgid:\t1234\nPid:\t1234\nPPid:\t5678\nTracerPid:\t0\n")

	ppid, err := ProcFS{Root: root}.Parent(1234)
	require.NoError(t, err)
	assert.Equal(t, PID(5678), ppid)
}

func TestProcFS_MissingProcess(t *testing.T) {
	src := ProcFS{Root: t.TempDir()}

	uid, err := src.Owner(1234)
	require.Error(t, err)
	assert.Equal(t, UnknownUID, uid)
	assert.Equal(t, KindNotFound, classify(err))

	ppid, err := src.Parent(1234)
	require.Error(t, err)
	assert.Equal(t, UnknownPID, ppid)
	assert.Equal(t, KindNotFound, classify(err))
}

func TestProcFS_StatusWithoutPPid(t *testing.T) {
	root := t.TempDir()
	writeProc(t, root, "1234", "Name:\tbash\nPid:\t1234\n")

	ppid, err := ProcFS{Root: root}.Parent(1234)
	require.Error(t, err)
	assert.Equal(t, UnknownPID, ppid)
	assert.True(t, errors.Is(err, ErrMalformedStatus))
	assert.Equal(t, KindParse, classify(err))
}

func TestParsePPid(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		want    PID
		wantErr bool
	}{
		{"tab separated", "PPid:\t42\n", 42, false},
		{"space separated", "PPid:   7", 7, false},
		{"first match wins", "PPid:\t3\nPPid:\t4\n", 3, false},
		{"kernel thread", "Name:\tkthreadd\nPPid:\t0\n", 0, false},
		{"not at line start", "XPPid:\t9\n", 0, true},
		{"no digits", "PPid:\tabc\n", 0, true},
		{"no whitespace", "PPid:12\n", 0, true},
		{"overflow", "PPid:\t99999999999\n", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePPid([]byte(tt.status), "status")
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, UnknownPID, got)
				assert.True(t, errors.Is(err, ErrMalformedStatus))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProcFS_Self(t *testing.T) {
	if _, err := os.Stat("/proc/self/status"); err != nil {
		t.Skip("procfs not mounted")
	}

	src := ProcFS{}
	uid, err := src.Owner(Self())
	require.NoError(t, err)
	assert.Equal(t, UID(os.Getuid()), uid)

	ppid, err := src.Parent(Self())
	require.NoError(t, err)
	assert.Equal(t, PID(os.Getppid()), ppid)
}

func TestGopsutil_Self(t *testing.T) {
	src := Gopsutil{}

	uid, err := src.Owner(Self())
	require.NoError(t, err)
	assert.Equal(t, UID(os.Getuid()), uid)

	ppid, err := src.Parent(Self())
	require.NoError(t, err)
	assert.Equal(t, PID(os.Getppid()), ppid)
}

func TestNewSource(t *testing.T) {
	src, err := NewSource("", "/host/proc")
	require.NoError(t, err)
	assert.Equal(t, ProcFS{Root: "/host/proc"}, src)

	src, err = NewSource(SourceGopsutil, "")
	require.NoError(t, err)
	assert.Equal(t, Gopsutil{}, src)

	_, err = NewSource("kvm", "")
	assert.Error(t, err)
}
