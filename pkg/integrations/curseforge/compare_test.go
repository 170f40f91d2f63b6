package curseforge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComparers(t *testing.T) {
	tests := []struct {
		name      string
		cmp       nameComparer
		requested string
		platform  string
		want      bool
	}{
		{"exact", exactCompare, "1.20.1", "1.20.1", true},
		{"exact ignores case", exactCompare, "fabric", "Fabric", true},
		{"exact mismatch", exactCompare, "1.20", "1.20.1", false},

		{"snapshot pre", snapshotCompare, "1.20-pre1", "1.20-Snapshot", true},
		{"snapshot rc", snapshotCompare, "1.20.2-rc1", "1.20.2-Snapshot", true},
		{"snapshot pre-release", snapshotCompare, "1.20 Pre-Release 2", "1.20-Snapshot", true},
		{"snapshot literal", snapshotCompare, "1.20-snapshot", "1.20-Snapshot", true},
		{"snapshot release never matches", snapshotCompare, "1.20", "1.20", false},
		{"snapshot other version", snapshotCompare, "1.21-pre1", "1.20-Snapshot", false},

		{"major.minor patch", majorMinorCompare, "1.19.2", "1.19", true},
		{"major.minor other patch", majorMinorCompare, "1.19.2", "1.19.4", true},
		{"major.minor different minor", majorMinorCompare, "1.19.2", "1.20", false},
		{"major.minor not a version", majorMinorCompare, "1.19", "Bukkit", false},
		{"major.minor request not a version", majorMinorCompare, "23w13a", "1.19", false},

		{"java number", javaCompare, "17", "Java 17", true},
		{"java name", javaCompare, "Java 17", "Java 17", true},
		{"java slug", javaCompare, "java-17", "java-17", true},
		{"java mismatch", javaCompare, "17", "Java 8", false},
		{"java junk", javaCompare, "latest", "Java 17", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cmp(tt.requested, tt.platform))
		})
	}
}
