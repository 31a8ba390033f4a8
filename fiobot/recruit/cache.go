package recruit

import (
	"sync"
	"sync/atomic"
)

// Manager 持有进程级的公招数据快照。
//
// Refresh 构建一份全新的 Dataset 后整体换入，读取方通过 Current 拿到的
// 永远是一份完整快照，不会观察到构建到一半的数据。
type Manager struct {
	snapshot atomic.Value // *Dataset

	refreshMu sync.Mutex
}

// NewManager 创建公招数据管理器，初始没有数据
func NewManager() *Manager {
	return &Manager{}
}

// Current 返回当前数据快照，尚未加载过数据时返回 nil
func (m *Manager) Current() *Dataset {
	ds, _ := m.snapshot.Load().(*Dataset)
	return ds
}

// Refresh 用新的原始表数据重建快照并原子换入。
// 构建失败时保留旧快照不变。
func (m *Manager) Refresh(charTableRaw, gachaTableRaw []byte) (*Dataset, error) {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	ds, err := BuildDataset(charTableRaw, gachaTableRaw)
	if err != nil {
		return nil, err
	}
	m.snapshot.Store(ds)
	return ds, nil
}
