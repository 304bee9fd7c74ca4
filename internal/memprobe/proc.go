package memprobe

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// region is one mapped range from /proc/<pid>/maps.
type region struct {
	start, end uint64
	prot       Protection
}

// ProcProbe reads a live process through /proc/<pid>/mem, with page
// protections parsed from /proc/<pid>/maps.
type ProcProbe struct {
	mem     *os.File
	regions []region
}

// OpenProcess attaches a probe to pid. The caller must Close it.
func OpenProcess(pid int) (*ProcProbe, error) {
	regions, err := loadMaps(fmt.Sprintf("/proc/%d/maps", pid))
	if err != nil {
		return nil, err
	}
	mem, err := os.Open(fmt.Sprintf("/proc/%d/mem", pid))
	if err != nil {
		return nil, fmt.Errorf("memprobe: open mem: %w", err)
	}
	return &ProcProbe{mem: mem, regions: regions}, nil
}

func (p *ProcProbe) Close() error { return p.mem.Close() }

func (p *ProcProbe) ReadAt(addr uint64, buf []byte) (int, error) {
	n, err := p.mem.ReadAt(buf, int64(addr))
	if err != nil && n == 0 {
		return 0, fmt.Errorf("%w: 0x%x", ErrUnmapped, addr)
	}
	return n, err
}

func (p *ProcProbe) Pointer(addr uint64) (uint64, error) {
	return readPointer(p, addr)
}

func (p *ProcProbe) Protect(addr uint64) (Protection, error) {
	i := sort.Search(len(p.regions), func(i int) bool { return p.regions[i].end > addr })
	if i < len(p.regions) && p.regions[i].start <= addr {
		return p.regions[i].prot, nil
	}
	return ProtUnknown, fmt.Errorf("%w: 0x%x", ErrUnmapped, addr)
}

func loadMaps(path string) ([]region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("memprobe: open maps: %w", err)
	}
	defer f.Close()

	var regions []region
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		r, ok := parseMapsLine(sc.Text())
		if !ok {
			continue
		}
		regions = append(regions, r)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("memprobe: read maps: %w", err)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].start < regions[j].start })
	return regions, nil
}

// parseMapsLine parses one maps entry: "start-end perms offset dev inode path".
func parseMapsLine(line string) (region, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return region{}, false
	}
	bounds := strings.SplitN(fields[0], "-", 2)
	if len(bounds) != 2 {
		return region{}, false
	}
	start, err1 := strconv.ParseUint(bounds[0], 16, 64)
	end, err2 := strconv.ParseUint(bounds[1], 16, 64)
	if err1 != nil || err2 != nil || end <= start {
		return region{}, false
	}
	return region{start: start, end: end, prot: parsePerms(fields[1])}, true
}

func parsePerms(perms string) Protection {
	if len(perms) < 3 {
		return ProtUnknown
	}
	read := perms[0] == 'r'
	write := perms[1] == 'w'
	exec := perms[2] == 'x'
	switch {
	case exec && write:
		return ProtExecuteReadWrite
	case exec:
		return ProtExecuteRead
	case write:
		return ProtReadWrite
	case read:
		return ProtRead
	default:
		return ProtNoAccess
	}
}
