package refresh

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/iconfolio/pkg/platform"
)

// Tier is one cache-invalidation technique. Run reports whether the
// technique completed; a Readback tier's success also confirms the cache.
type Tier struct {
	Name     string
	Readback bool
	Run      func(folder string) (bool, error)
}

// Tier names
const (
	TierIconLookup      = "icon-lookup"
	TierAttributeToggle = "attribute-toggle"
	TierTouch           = "touch"
)

// DefaultTiers returns lookup, toggle and touch, in escalation order
func (o *Orchestrator) DefaultTiers() []Tier {
	return []Tier{
		{Name: TierIconLookup, Readback: true, Run: o.iconLookup},
		{Name: TierAttributeToggle, Run: o.attributeToggle},
		{Name: TierTouch, Run: o.touch},
	}
}

// iconLookup asks the shell for the small and the large icon. Handles are
// released by the platform layer.
func (o *Orchestrator) iconLookup(folder string) (bool, error) {
	small, errSmall := o.shell.LookupIcon(folder, false)
	large, errLarge := o.shell.LookupIcon(folder, true)
	if small || large {
		return true, nil
	}
	if errSmall != nil {
		return false, errSmall
	}
	return false, errLarge
}

// attributeToggle sets READONLY briefly and puts the bitmask back
func (o *Orchestrator) attributeToggle(folder string) (bool, error) {
	current, err := o.attrs.Get(folder)
	if err != nil {
		return false, err
	}
	if err := o.attrs.Set(folder, current|platform.AttrReadOnly); err != nil {
		return false, err
	}
	o.sleep(o.refresh.ToggleDelay)
	if err := o.attrs.Set(folder, current); err != nil {
		return false, fmt.Errorf("restore after toggle: %w", err)
	}
	return true, nil
}

// touch creates and deletes a scratch file to raise a directory change
func (o *Orchestrator) touch(folder string) (bool, error) {
	scratch := filepath.Join(folder, o.refresh.ScratchFile)
	if err := o.fs.WriteFile(scratch, []byte("temp file to trigger refresh"), 0644); err != nil {
		// a failed write may still have created the file
		_ = o.fs.Remove(scratch)
		return false, err
	}
	if err := o.fs.Remove(scratch); err != nil {
		return false, err
	}
	return true, nil
}
