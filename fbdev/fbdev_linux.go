package fbdev

import (
	"fmt"
	"image"
	"os"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/BeatGlow/oled/framebuffer"
	"github.com/BeatGlow/oled/internal/ioctl"
	"github.com/BeatGlow/oled/internal/logger"
	"github.com/BeatGlow/oled/pixel"
)

// From <linux/fb.h>
const (
	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602
	fbioBlank          = 0x4611

	fbVisualMono01 = 0 // 1 = black, 0 = white
	fbVisualMono10 = 1 // 1 = white, 0 = black

	fbBlankUnblank   = 0
	fbBlankPowerdown = 4
)

// Device is a 1 bit per pixel Linux framebuffer device.
type Device struct {
	mu         sync.Mutex
	f          *os.File
	fd         uintptr
	mem        []byte
	img        *pixel.MonoImage
	geometry   framebuffer.Geometry
	invert     bool
	info       linuxFixScreenInfo
	screenInfo linuxVarScreenInfo
}

// Open a Linux FrameBuffer device (fbdev) by name, typically /dev/fb[0..x]. The device
// must use a monochrome 1bpp visual.
func Open(name string) (*Device, error) {
	f, err := os.OpenFile(name, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return nil, err
	}

	d := &Device{
		f:  f,
		fd: f.Fd(),
	}
	if err = ioctl.Call(d.fd, fbioGetFScreenInfo, uintptr(unsafe.Pointer(&d.info))); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err = ioctl.Call(d.fd, fbioGetVScreenInfo, uintptr(unsafe.Pointer(&d.screenInfo))); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err = d.parseFormat(); err != nil {
		_ = f.Close()
		return nil, err
	}

	// Map pixel buffer.
	if d.mem, err = unix.Mmap(int(d.fd), 0, int(d.info.SmemLen), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("fbdev: can't map %s: %w", name, err)
	}

	var (
		w = int(d.screenInfo.Xres)
		h = int(d.screenInfo.Yres)
	)
	d.geometry = framebuffer.GeometryFor(w, h)
	d.img = &pixel.MonoImage{
		Buffer: pixel.Buffer{
			Rect:   image.Rect(0, 0, w, h),
			Pix:    d.mem,
			Stride: int(d.info.LineLength),
		},
	}

	logger.Get().Debug("fbdev: opened", "device", name, "id", d.id(), "geometry", d.geometry, "stride", d.info.LineLength)
	return d, nil
}

func (d *Device) parseFormat() error {
	if d.screenInfo.BitsPerPixel != 1 {
		return fmt.Errorf("%w: %d bits per pixel", ErrFormat, d.screenInfo.BitsPerPixel)
	}
	switch d.info.Visual {
	case fbVisualMono10:
	case fbVisualMono01:
		d.invert = true
	default:
		return fmt.Errorf("%w: visual %d", ErrFormat, d.info.Visual)
	}
	if need := d.info.LineLength * d.screenInfo.Yres; need > d.info.SmemLen || d.info.LineLength*8 < d.screenInfo.Xres {
		return fmt.Errorf("%w: line length %d for %dx%d", ErrFormat, d.info.LineLength, d.screenInfo.Xres, d.screenInfo.Yres)
	}
	return nil
}

func (d *Device) id() string {
	n := 0
	for n < len(d.info.ID) && d.info.ID[n] != 0 {
		n++
	}
	return string(d.info.ID[:n])
}

func (d *Device) String() string {
	return fmt.Sprintf("fbdev %s %dx%d", d.id(), d.screenInfo.Xres, d.screenInfo.Yres)
}

// Geometry of the frames accepted by Flush.
func (d *Device) Geometry() framebuffer.Geometry {
	return d.geometry
}

// Flush writes the frame into the mapped framebuffer memory.
func (d *Device) Flush(fb *framebuffer.FrameBuffer) error {
	if err := fb.Validate(d.geometry); err != nil {
		return fmt.Errorf("fbdev: %w", err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	blit(d.img, fb, d.invert)
	return nil
}

// Show blanks or unblanks the display.
func (d *Device) Show(show bool) error {
	level := uintptr(fbBlankPowerdown)
	if show {
		level = fbBlankUnblank
	}
	return ioctl.Call(d.fd, fbioBlank, level)
}

// SetContrast is not available through fbdev.
func (d *Device) SetContrast(uint8) error {
	return ErrNotSupported
}

// Close the framebuffer device.
func (d *Device) Close() error {
	if err := unix.Munmap(d.mem); err != nil {
		return err
	}
	return d.f.Close()
}

type linuxFixScreenInfo struct {
	ID           [16]byte  // Identification string eg "TT Builtin"
	SmemStart    uintptr   // Start of frame buffer mem
	SmemLen      uint32    // Length of frame buffer mem
	Type         uint32    // FB_TYPE_
	TypeAux      uint32    // Interleave for interleaved Planes
	Visual       uint32    // FB_VISUAL_
	Xpanstep     uint16    // Zero if no hardware panning
	Ypanstep     uint16    // Zero if no hardware panning
	Ywrapstep    uint16    // Zero if no hardware ywrap
	LineLength   uint32    // Length of a line in bytes
	MmioStart    uintptr   // Start of Memory Mapped I/O (physical address)
	MmioLen      uint32    // Length of Memory Mapped I/O
	Accel        uint32    // Type of acceleration available
	Capabilities uint16    // See FB_CAP_*
	Reserved     [2]uint16 // Reserved for future compatibility
}

type linuxBitField struct {
	Offset   uint32 // Beginning of bitfield
	Length   uint32 // Length of bitfield
	MsbRight uint32 // != 0 : Most significant bit is right
}

// linuxVarScreenInfo contains device independent changeable information about a frame buffer device and a specific video mode.
type linuxVarScreenInfo struct {
	Xres                    uint32
	Yres                    uint32
	XresVirtual             uint32
	YresVirtual             uint32
	Xoffset                 uint32
	Yoffset                 uint32
	BitsPerPixel            uint32
	Grayscale               uint32
	Red, Green, Blue, Alpha linuxBitField
	Nonstd                  uint32
	Activate                uint32
	Height                  uint32
	Width                   uint32
	AccelFlags              uint32
	Pixclock                uint32
	LeftMargin              uint32
	RightMargin             uint32
	UpperMargin             uint32
	LowerMargin             uint32
	HsyncLen                uint32
	VsyncLen                uint32
	Sync                    uint32
	Vmode                   uint32
	Rotate                  uint32
	Colorspace              uint32
	Reserved                [4]uint32
}
