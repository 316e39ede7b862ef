package seat

// ClientID identifies the Wayland client connection owning a surface. The
// seat package never talks to a protocol library directly; higher layers
// supply a ClientID that is stable and comparable for the lifetime of a
// client connection.
type ClientID uint64

// Surface is the minimal view the seat package needs of a client surface:
// whether it is still alive (for grab/focus teardown) and which client
// owns it (for the cursor-image same-client check). xdgshell's surface
// type and any other role object satisfy this trivially.
type Surface interface {
	Alive() bool
	Client() ClientID
}
