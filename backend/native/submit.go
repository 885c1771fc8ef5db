//go:build !nogpu

package native

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"
)

// record encodes one command buffer with fn, submits it and waits for the
// device to go idle. Callers hold gpuMu.
func (b *Backend) record(label string, fn func(enc hal.CommandEncoder) error) error {
	enc, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return fmt.Errorf("native: create encoder: %w", err)
	}
	defer enc.Destroy()

	if err := enc.BeginEncoding(label); err != nil {
		return fmt.Errorf("native: begin encoding: %w", err)
	}
	if err := fn(enc); err != nil {
		enc.DiscardEncoding()
		return err
	}
	cmd, err := enc.EndEncoding()
	if err != nil {
		return fmt.Errorf("native: end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmd)

	if _, err := b.queue.Submit([]hal.CommandBuffer{cmd}); err != nil {
		return fmt.Errorf("native: submit: %w", err)
	}
	if err := b.device.WaitIdle(); err != nil {
		return fmt.Errorf("native: wait idle: %w", err)
	}
	return nil
}
