// Package native implements the state tracker backend on a wgpu HAL device.
//
// Texture storage is a HAL texture, sampled views are HAL texture views and
// the generic blit is a full-screen quad drawn by a render pipeline compiled
// from WGSL with naga. Region copies use CopyTextureToTexture.
//
// WebGPU has neither tile load/store nor ambient pipeline state, so the
// backend implements no tile engine and no state saver: blit requests that
// miss the region path go straight to the draw.
//
// Build with the nogpu tag to leave the backend out.
package native
