package device

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// defaultMemoryMB is assumed when total memory cannot be read.
const defaultMemoryMB = 8192

// detectMemoryMB reads total system memory from /proc/meminfo.
// On platforms without procfs it returns the capable default; the
// profile is advisory and a wrong guess only shifts quality presets.
func detectMemoryMB() int {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return defaultMemoryMB
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			break
		}
		kb, err := strconv.Atoi(fields[1])
		if err != nil || kb <= 0 {
			break
		}
		return kb / 1024
	}
	return defaultMemoryMB
}
