// Package interaction implements the remote register bus.
//
// A bus daemon exposes a backing bus.Bus (usually MMIO) to clients over
// the transport. The protocol has four operations:
//
//   - Hello: version negotiation, required before any other request
//   - Describe: lists the served memory regions
//   - Read: reads one register
//   - Write: writes one register, passing the identity mask and value so
//     the daemon performs any needed read-modify-write next to the hardware
//
// # Server Usage
//
//	srv := interaction.NewServer(mmio.NewBus(region), regions...)
//	ts := transport.NewServer(transport.ServerConfig{
//	    OnMessage:    func(c *transport.Conn, msg []byte) { srv.HandleMessage(c, msg) },
//	    OnDisconnect: func(c *transport.Conn) { srv.Forget(c) },
//	})
//
// # Client Usage
//
// Client implements bus.Bus, so a register group can be bound to a remote
// daemon directly:
//
//	rb, err := interaction.Connect(ctx, "10.0.0.2:7483", transport.ClientConfig{PSK: key})
//	g, err := examples.UART(rb)
//	r, err := regio.BlockingRead(ctx, g, "status")
//
// Remote buses may suspend, so the Sync* helpers of package regio return
// async.ErrWouldBlock for them.
package interaction
