// Command zfsphys-inspect opens a block device and prints, for each of
// its four labels, whether the boot header and NV pairs regions
// verify, the pool configuration keys found, and how many uberblock
// ring slots verify. Its output format is not part of the module's
// testable surface (spec.md's Non-goals exclude front-end behavior);
// it exists to exercise the library the way cmd/dump_hdf5 exercises
// the teacher's HDF5 reader.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/scigolib/zfsphys"
	"github.com/scigolib/zfsphys/internal/phys"
)

func main() {
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Println("Usage: zfsphys-inspect <device-or-image>")
		return
	}

	path := args[0]
	v, err := zfsphys.Open(path)
	if err != nil {
		log.Fatalf("open %q: %v", path, err)
	}
	defer func() {
		if err := v.Close(); err != nil {
			log.Printf("close: %v", err)
		}
	}()

	fmt.Printf("%s: %d sectors\n", path, v.Sectors())

	labels, errs := v.Labels()
	for i := 0; i < phys.LabelCount; i++ {
		if errs[i] != nil {
			fmt.Printf("L%d: bad (%v)\n", i, errs[i])
			continue
		}

		l := labels[i]
		version, hasVersion := l.Version()
		ashift, hasAshift := l.AllocationShift()

		fmt.Printf("L%d: ok, %d nv pairs, %d uberblocks verify",
			i, len(l.NvPairs.List.Pairs), len(l.Uberblocks))
		if hasVersion {
			fmt.Printf(", version=%s", version)
		}
		if hasAshift && hasVersion {
			fmt.Printf(", ashift=%d (uberblock size %d)", ashift, phys.UberblockSize(ashift, version))
		}
		fmt.Println()
	}
}
