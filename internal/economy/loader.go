package economy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Load 读取策略文件并覆盖到默认策略之上，然后进行校验。
// 文件不存在时直接使用默认策略。
func Load(path string) (*Policy, error) {
	p := DefaultPolicy()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("无法读取经济策略文件 %s: %w", path, err)
		default:
			if err := Parse(data, p); err != nil {
				return nil, fmt.Errorf("无法解析经济策略文件 %s: %w", path, err)
			}
		}
	}
	if err := Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse 将YAML内容覆盖到 p 上。列表字段整体替换，映射字段按键合并。
func Parse(data []byte, p *Policy) error {
	if len(data) == 0 {
		return nil
	}
	return yaml.Unmarshal(data, p)
}
