package host

import (
	"strings"
	"sync"

	"github.com/jaypipes/ghw"
	pshost "github.com/shirou/gopsutil/v3/host"
)

// Inventory describes the hardware this collector runs on. It is static for
// the life of the process and resolved once on first request.
type Inventory struct {
	Hostname    string         `json:"hostname"`
	OS          string         `json:"os"`
	Platform    string         `json:"platform"`
	Product     string         `json:"product"`
	Board       string         `json:"board"`
	MemoryTotal uint64         `json:"memoryTotalBytes"`
	Modules     []MemoryModule `json:"modules,omitempty"`
	UptimeSec   uint64         `json:"uptimeSeconds"`
	KernelArch  string         `json:"kernelArch"`
	Warnings    string         `json:"warnings,omitempty"`
}

type MemoryModule struct {
	Label     string `json:"label"`
	Vendor    string `json:"vendor"`
	SizeBytes uint64 `json:"sizeBytes"`
}

var (
	inventoryOnce   sync.Once
	cachedInventory Inventory
)

// ReadInventory resolves the hardware inventory, caching the DMI/ghw parts
// after the first call. Host uptime is refreshed on every call.
func ReadInventory() Inventory {
	inventoryOnce.Do(func() {
		cachedInventory = buildInventory()
	})
	inv := cachedInventory
	if info, err := pshost.Info(); err == nil && info != nil {
		inv.Hostname = info.Hostname
		inv.UptimeSec = info.Uptime
	}
	return inv
}

func buildInventory() Inventory {
	var inv Inventory
	var warnings []string

	if info, err := pshost.Info(); err != nil {
		warnings = append(warnings, "host: "+err.Error())
	} else if info != nil {
		inv.Hostname = info.Hostname
		inv.OS = info.OS
		inv.Platform = strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
		inv.KernelArch = info.KernelArch
		inv.UptimeSec = info.Uptime
	}

	if product, err := ghw.Product(); err != nil {
		warnings = append(warnings, "product: "+err.Error())
	} else if product != nil {
		inv.Product = strings.TrimSpace(product.Vendor + " " + product.Name)
	}

	if board, err := ghw.Baseboard(); err != nil {
		warnings = append(warnings, "board: "+err.Error())
	} else if board != nil {
		inv.Board = strings.TrimSpace(board.Vendor + " " + board.Product)
	}

	if memory, err := ghw.Memory(); err != nil {
		warnings = append(warnings, "memory: "+err.Error())
	} else if memory != nil {
		if memory.TotalPhysicalBytes > 0 {
			inv.MemoryTotal = uint64(memory.TotalPhysicalBytes)
		}
		for _, mod := range memory.Modules {
			if mod == nil {
				continue
			}
			size := uint64(0)
			if mod.SizeBytes > 0 {
				size = uint64(mod.SizeBytes)
			}
			inv.Modules = append(inv.Modules, MemoryModule{
				Label:     strings.TrimSpace(mod.Label),
				Vendor:    strings.TrimSpace(mod.Vendor),
				SizeBytes: size,
			})
		}
	}

	if len(warnings) > 0 {
		inv.Warnings = strings.Join(warnings, "; ")
	}
	return inv
}
