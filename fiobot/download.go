package fiobot

import (
	"io"
	"math/rand"
	"net/http"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
)

const (
	characterTableFile = "character_table.json"
	gachaTableFile     = "gacha_table.json"
)

// ensureGameData 确保公招数据就绪。force为true时强制重新下载，
// 否则优先使用本地缓存文件，缺失时才下载。
func (r *Robot) ensureGameData(force bool) error {
	charTableRaw, err := r.fetchTable(r.Config.Recruit.CharacterTableURL, characterTableFile, force)
	if err != nil {
		return errors.Wrap(err, "获取character_table失败")
	}

	gachaTableRaw, err := r.fetchTable(r.Config.Recruit.GachaTableURL, gachaTableFile, force)
	if err != nil {
		return errors.Wrap(err, "获取gacha_table失败")
	}

	ds, err := r.recruitData.Refresh(charTableRaw, gachaTableRaw)
	if err != nil {
		return errors.Wrap(err, "解析公招数据失败")
	}

	logger.Infof("公招数据加载完成：%d 个可招募干员，%d 个标签", len(ds.Operators), len(ds.ValidTags))
	return nil
}

// fetchTable 获取数据表，下载成功后缓存到数据目录
func (r *Robot) fetchTable(url string, filename string, force bool) ([]byte, error) {
	cachePath := path.Join(r.Config.Robot.DataDir, filename)

	if !force {
		if data, err := os.ReadFile(cachePath); err == nil && len(data) != 0 {
			return data, nil
		}
	}

	data, err := r.downloadWithMirrors(url)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(r.Config.Robot.DataDir, 0o755); err == nil {
		if err := os.WriteFile(cachePath, data, 0o644); err != nil {
			logger.Warnf("缓存%v失败: %v", filename, err)
		}
	}

	return data, nil
}

// downloadWithMirrors 依次尝试镜像地址，第一个成功的结果生效
func (r *Robot) downloadWithMirrors(url string) ([]byte, error) {
	var lastErr error
	for _, mirrorURL := range generateMirrorGithubRawUrls(url) {
		data, err := r.downloadBytes(mirrorURL)
		if err != nil {
			logger.Warnf("下载失败，尝试下一个镜像: url=%v err=%v", mirrorURL, err)
			lastErr = err
			continue
		}
		logger.Infof("下载成功: url=%v size=%v", mirrorURL, humanize.Bytes(uint64(len(data))))
		return data, nil
	}
	return nil, errors.Wrapf(lastErr, "所有镜像均下载失败, url=%v", url)
}

func (r *Robot) downloadBytes(url string) ([]byte, error) {
	rsp, err := r.httpClient.Get(url)
	if err != nil {
		return nil, err
	}
	defer rsp.Body.Close()

	if rsp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status code %v", rsp.StatusCode)
	}

	data, err := io.ReadAll(rsp.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty response")
	}
	return data, nil
}

// 形如 https://raw.githubusercontent.com/Kengxxiao/ArknightsGameData/master/zh_CN/gamedata/excel/character_table.json
var regRawURL = regexp.MustCompile(`https://raw\.githubusercontent\.com/(?P<owner>[\w-]+)/(?P<repo_name>[\w-]+)/(?P<branch_name>[\w-]+)/(?P<filepath_in_repo>[\w\W]+)`)

func generateMirrorGithubRawUrls(gitRawURL string) []string {
	match := regRawURL.FindStringSubmatch(gitRawURL)
	if match == nil {
		return []string{gitRawURL}
	}
	owner := match[regRawURL.SubexpIndex("owner")]
	repoName := match[regRawURL.SubexpIndex("repo_name")]
	branchName := match[regRawURL.SubexpIndex("branch_name")]
	filepathInRepo := match[regRawURL.SubexpIndex("filepath_in_repo")]

	var urls []string

	// 先加入比较快的几个镜像
	urls = append(urls, "https://raw.iqiq.io/{owner}/{repo_name}/{branch_name}/{filepath_in_repo}")
	urls = append(urls, "https://raw-gh.gcdn.mirr.one/{owner}/{repo_name}/{branch_name}/{filepath_in_repo}")

	// 随机乱序，确保均匀分布请求
	rand.Shuffle(len(urls), func(i, j int) {
		urls[i], urls[j] = urls[j], urls[i]
	})

	// 然后加入几个慢的镜像
	urls = append(urls, "https://gcore.jsdelivr.net/gh/{owner}/{repo_name}@{branch_name}/{filepath_in_repo}")
	urls = append(urls, "https://fastly.jsdelivr.net/gh/{owner}/{repo_name}@{branch_name}/{filepath_in_repo}")
	urls = append(urls, "https://ghproxy.com/https://raw.githubusercontent.com/{owner}/{repo_name}/{branch_name}/{filepath_in_repo}")

	// 最后加入原始地址
	urls = append(urls, "https://raw.githubusercontent.com/{owner}/{repo_name}/{branch_name}/{filepath_in_repo}")

	// 替换占位符为实际值
	placeholderToValue := map[string]string{
		"{owner}":            owner,
		"{repo_name}":        repoName,
		"{branch_name}":      branchName,
		"{filepath_in_repo}": filepathInRepo,
	}
	for idx := 0; idx < len(urls); idx++ {
		for placeholder, value := range placeholderToValue {
			urls[idx] = strings.ReplaceAll(urls[idx], placeholder, value)
		}
	}

	return urls
}
