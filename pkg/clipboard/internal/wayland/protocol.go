//go:build linux

// Package wayland owns the Wayland selection through wlr-data-control and
// serves a fixed set of MIME types until another client replaces it.
package wayland

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"syscall"
)

var le = binary.LittleEndian

// Object IDs assigned by this client (client range starts at 2).
const (
	idDisplay   uint32 = 1
	idRegistry  uint32 = 2
	idGlobals   uint32 = 3 // callback for the registry round trip
	idSeat      uint32 = 4
	idManager   uint32 = 5 // zwlr_data_control_manager_v1
	idSource    uint32 = 6 // zwlr_data_control_source_v1
	idDevice    uint32 = 7 // zwlr_data_control_device_v1
	idOwnership uint32 = 8 // callback confirming set_selection
)

// Request and event opcodes used below.
const (
	opDisplaySync        uint16 = 0
	opDisplayGetRegistry uint16 = 1
	opRegistryBind       uint16 = 0
	opManagerNewSource   uint16 = 0
	opManagerGetDevice   uint16 = 1
	opSourceOffer        uint16 = 0
	opDeviceSetSelection uint16 = 0

	evRegistryGlobal  uint16 = 0
	evCallbackDone    uint16 = 0
	evSourceSend      uint16 = 0
	evSourceCancelled uint16 = 1
)

const (
	ifaceSeat    = "wl_seat"
	ifaceManager = "zwlr_data_control_manager_v1"
)

type message struct {
	object  uint32
	opcode  uint16
	payload []byte
	fd      int // -1 when no descriptor came with the message
}

func (m message) closeFd() {
	if m.fd >= 0 {
		syscall.Close(m.fd) //nolint:errcheck
	}
}

// conn is a buffered Wayland socket.
type conn struct {
	fd      int
	pending []byte
	fds     []int
}

func dial(sockPath string) (*conn, error) {
	fd, err := syscall.Socket(syscall.AF_UNIX, syscall.SOCK_STREAM, 0)
	if err != nil {
		return nil, err
	}
	if err := syscall.Connect(fd, &syscall.SockaddrUnix{Name: sockPath}); err != nil {
		syscall.Close(fd) //nolint:errcheck
		return nil, err
	}
	return &conn{fd: fd}, nil
}

func (c *conn) close() {
	syscall.Close(c.fd) //nolint:errcheck
}

func (c *conn) send(object uint32, opcode uint16, args ...[]byte) error {
	body := concat(args...)
	size := 8 + len(body)
	buf := make([]byte, size)
	le.PutUint32(buf[0:], object)
	le.PutUint32(buf[4:], uint32(opcode)|uint32(size)<<16)
	copy(buf[8:], body)
	_, err := syscall.Write(c.fd, buf)
	return err
}

// next returns the next complete event, reading from the socket as needed.
// File descriptors passed with SCM_RIGHTS are handed, in arrival order, to the
// events that carry one.
func (c *conn) next() (message, error) {
	for {
		if m, ok := c.take(); ok {
			return m, nil
		}
		if err := c.fill(); err != nil {
			return message{fd: -1}, err
		}
	}
}

func (c *conn) take() (message, bool) {
	if len(c.pending) < 8 {
		return message{}, false
	}
	header := le.Uint32(c.pending[4:8])
	size := int(header >> 16)
	if size < 8 || len(c.pending) < size {
		return message{}, false
	}
	m := message{
		object:  le.Uint32(c.pending[0:4]),
		opcode:  uint16(header & 0xffff),
		payload: append([]byte(nil), c.pending[8:size]...),
		fd:      -1,
	}
	c.pending = c.pending[size:]
	if m.carriesFd() && len(c.fds) > 0 {
		m.fd, c.fds = c.fds[0], c.fds[1:]
	}
	return m, true
}

// carriesFd reports whether m is an event whose signature includes a file
// descriptor. Only data_control_source.send does among the events we receive.
func (m message) carriesFd() bool {
	return m.object == idSource && m.opcode == evSourceSend
}

func (c *conn) fill() error {
	buf := make([]byte, 4096)
	oob := make([]byte, syscall.CmsgSpace(4*8))
	n, oobn, _, _, err := syscall.Recvmsg(c.fd, buf, oob, 0)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("wayland: connection closed")
	}
	c.pending = append(c.pending, buf[:n]...)
	if oobn == 0 {
		return nil
	}
	scms, err := syscall.ParseSocketControlMessage(oob[:oobn])
	if err != nil {
		return nil
	}
	for i := range scms {
		if rights, err := syscall.ParseUnixRights(&scms[i]); err == nil {
			c.fds = append(c.fds, rights...)
		}
	}
	return nil
}

// roundTrip sends wl_display.sync and hands every event to fn until the
// callback fires.
func (c *conn) roundTrip(callback uint32, fn func(message)) error {
	if err := c.send(idDisplay, opDisplaySync, u32(callback)); err != nil {
		return err
	}
	for {
		m, err := c.next()
		if err != nil {
			return err
		}
		if m.object == callback && m.opcode == evCallbackDone {
			m.closeFd()
			return nil
		}
		if fn != nil {
			fn(m)
		}
		m.closeFd()
	}
}

func u32(v uint32) []byte {
	b := make([]byte, 4)
	le.PutUint32(b, v)
	return b
}

// str encodes a Wayland string: length including NUL, bytes, 4-byte padding.
func str(s string) []byte {
	length := len(s) + 1
	buf := make([]byte, 4+((length+3)&^3))
	le.PutUint32(buf[0:], uint32(length))
	copy(buf[4:], s)
	return buf
}

func concat(parts ...[]byte) []byte {
	var total int
	for _, p := range parts {
		total += len(p)
	}
	out := make([]byte, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func decodeString(data []byte) (string, []byte, error) {
	if len(data) < 4 {
		return "", data, fmt.Errorf("wayland: short string length field")
	}
	length := int(le.Uint32(data[:4]))
	data = data[4:]
	if length == 0 {
		return "", data, nil
	}
	padded := (length + 3) &^ 3
	if len(data) < padded {
		return "", data, fmt.Errorf("wayland: short string data")
	}
	return string(data[:length-1]), data[padded:], nil
}

// globals maps interface names to registry names.
type globals map[string]uint32

func (c *conn) listGlobals() (globals, error) {
	if err := c.send(idDisplay, opDisplayGetRegistry, u32(idRegistry)); err != nil {
		return nil, err
	}
	found := globals{}
	err := c.roundTrip(idGlobals, func(m message) {
		if m.object != idRegistry || m.opcode != evRegistryGlobal || len(m.payload) < 4 {
			return
		}
		iface, _, err := decodeString(m.payload[4:])
		if err != nil {
			return
		}
		if iface == ifaceSeat || iface == ifaceManager {
			found[iface] = le.Uint32(m.payload[:4])
		}
	})
	return found, err
}

// bind issues wl_registry.bind; new_id is encoded inline as
// name, interface, version, id.
func (c *conn) bind(name uint32, iface string, version, id uint32) error {
	return c.send(idRegistry, opRegistryBind, u32(name), str(iface), u32(version), u32(id))
}

// claim offers formats and makes this client the selection owner.
func (c *conn) claim(g globals, formats map[string][]byte) error {
	seat, ok := g[ifaceSeat]
	if !ok {
		return fmt.Errorf("wayland: wl_seat not found")
	}
	manager, ok := g[ifaceManager]
	if !ok {
		return fmt.Errorf("wayland: %s not found (compositor may not support wlr-data-control)", ifaceManager)
	}

	if err := c.bind(seat, ifaceSeat, 1, idSeat); err != nil {
		return err
	}
	if err := c.bind(manager, ifaceManager, 2, idManager); err != nil {
		return err
	}
	if err := c.send(idManager, opManagerNewSource, u32(idSource)); err != nil {
		return err
	}

	mimeTypes := make([]string, 0, len(formats))
	for mime := range formats {
		mimeTypes = append(mimeTypes, mime)
	}
	sort.Strings(mimeTypes)
	for _, mime := range mimeTypes {
		if err := c.send(idSource, opSourceOffer, str(mime)); err != nil {
			return err
		}
	}

	if err := c.send(idManager, opManagerGetDevice, u32(idDevice), u32(idSeat)); err != nil {
		return err
	}
	if err := c.send(idDevice, opDeviceSetSelection, u32(idSource)); err != nil {
		return err
	}
	return c.roundTrip(idOwnership, nil)
}

// serve answers paste requests until the selection is cancelled or the
// compositor goes away.
func (c *conn) serve(formats map[string][]byte) error {
	for {
		m, err := c.next()
		if err != nil {
			return nil
		}
		if m.object != idSource {
			m.closeFd()
			continue
		}
		switch m.opcode {
		case evSourceSend:
			mime, _, _ := decodeString(m.payload)
			if data, ok := formats[mime]; ok && m.fd >= 0 {
				syscall.Write(m.fd, data) //nolint:errcheck
			}
			m.closeFd()
		case evSourceCancelled:
			m.closeFd()
			return nil
		default:
			m.closeFd()
		}
	}
}

func socketPath() (string, error) {
	runtime := os.Getenv("XDG_RUNTIME_DIR")
	if runtime == "" {
		return "", fmt.Errorf("wayland: XDG_RUNTIME_DIR not set")
	}
	display := os.Getenv("WAYLAND_DISPLAY")
	if display == "" {
		display = "wayland-0"
	}
	if filepath.IsAbs(display) {
		return display, nil
	}
	return filepath.Join(runtime, display), nil
}

// Serve claims the Wayland selection for formats and blocks until ownership
// is cancelled by another clipboard write.
func Serve(formats map[string][]byte) error {
	sockPath, err := socketPath()
	if err != nil {
		return err
	}
	c, err := dial(sockPath)
	if err != nil {
		return fmt.Errorf("wayland: connect %s: %w", sockPath, err)
	}
	defer c.close()

	g, err := c.listGlobals()
	if err != nil {
		return err
	}
	if err := c.claim(g, formats); err != nil {
		return err
	}
	return c.serve(formats)
}
