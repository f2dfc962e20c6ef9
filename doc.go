// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package wmsg provides a window-message transport between logical threads
// and processes: synchronous sends with typed reply channels, notify and
// callback sends, posted and hardware input queues, and payload marshalling
// for messages whose parameters point at caller memory.
//
// # Architecture
//
//   - Transport: Each [Thread] owns one bounded inbound queue backed by a lock-free SPSC ring from [code.hybscloud.com/lfq]. Producers serialize among themselves; the owner drains the ring into sent, posted and hardware lists.
//   - Reply channel: A synchronous send opens a one-shot session on [code.hybscloud.com/kont]. The receiver selects a reply or a neutral answer; the sender offers both branches and steps the session until it completes.
//   - Non-blocking: Every wait is a poll with adaptive backoff from [code.hybscloud.com/iox]. A blocked sender keeps servicing inbound sends, so two threads sending to each other never deadlock.
//   - Marshalling: [Pack] and [Unpack] move pointer payloads across process boundaries as little-endian chunks. Text travels as UTF-16LE.
//   - DDE: [DDETable] pairs execute blocks with their acknowledgements across processes.
//
// # API Topologies
//
//   - Send: [Thread.Send], [Thread.SendAscii], [Thread.SendNotify], [Thread.SendCallback], [Thread.Broadcast].
//   - Post: [Thread.Post], [Thread.PostThread], [System.QueueInput], [System.QueueWinEvent].
//   - Receive: [Thread.Peek], [Thread.Get], [Thread.Dispatch], [Thread.Reply], [Thread.InSendQuery].
//   - Collaborators: [QueueService], [WindowManager] and [HookChain] can be replaced through [Option].
//
// # Logging
//
// Diagnostics go to the [go.uber.org/zap] logger in [Config]. Hot paths
// check the level before building fields.
//
// # Example
//
//	sys := wmsg.NewSystem(wmsg.DefaultConfig())
//	proc := wmsg.NewProcess()
//	a, _ := sys.NewThread(proc)
//	b, _ := sys.NewThread(proc)
//	w, _ := b.CreateWindow(func(t *wmsg.Thread, m wmsg.Message) uintptr {
//		return uintptr(len(m.Data.(string)))
//	})
//	go func() {
//		for {
//			if _, err := b.Get(ctx, wmsg.Filter{}); err != nil {
//				return
//			}
//		}
//	}()
//	n, err := a.Send(wmsg.Message{Window: w, ID: wmsg.WM_SETTEXT, Data: "hello"}, wmsg.SendOptions{})
package wmsg
